package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/repository"
	"github.com/secmon-lab/refwatch/pkg/utils/errutil"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
)

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Default().Error("fail to encode response", slog.Any("error", err))
		safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"encoding failure"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, body)
}

type repoSummary struct {
	Name       types.RepoName        `json:"name"`
	Remote     string                `json:"remote"`
	GitHub     string                `json:"github,omitempty"`
	Conditions []types.ConditionName `json:"conditions,omitempty"`
}

func New(uc interfaces.UseCase) *Server {
	r := chi.NewRouter()
	r.Use(preProcess)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Runs one check cycle synchronously. A cycle already in progress
		// answers 409 Conflict; the request is dropped, not queued. The
		// cycle runs on a detached context: a client disconnect must not
		// cancel dispatch or the state commit halfway.
		r.Post("/cycle", func(w http.ResponseWriter, r *http.Request) {
			result, err := uc.RunCheckCycle(DetachContext(r.Context()))
			if err != nil {
				if errors.Is(err, types.ErrCycleActive) {
					writeJSON(w, http.StatusConflict, map[string]string{"error": "check cycle already active"})
					return
				}
				errutil.HandleError(r.Context(), "check cycle failed", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, result)
		})

		r.Get("/repos", func(w http.ResponseWriter, r *http.Request) {
			repos := []repoSummary{}
			for _, repo := range uc.Repositories() {
				summary := repoSummary{
					Name:   repo.Name,
					Remote: repo.Remote,
				}
				if repo.GitHub != nil {
					summary.GitHub = repo.GitHub.String()
				}
				for _, c := range repo.Conditions {
					summary.Conditions = append(summary.Conditions, c.Name)
				}
				repos = append(repos, summary)
			}
			writeJSON(w, http.StatusOK, repos)
		})

		r.Get("/repos/{repo}/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
			number, err := strconv.Atoi(chi.URLParam(r, "number"))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pull request number"})
				return
			}

			status, err := uc.LookupPullRequest(r.Context(), types.RepoName(chi.URLParam(r, "repo")), number)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
					return
				}
				errutil.HandleError(r.Context(), "PR lookup failed", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, status)
		})
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
