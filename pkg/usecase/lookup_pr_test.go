package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/refwatch/pkg/domain/mock"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/infra"
	"github.com/secmon-lab/refwatch/pkg/repository"
	"github.com/secmon-lab/refwatch/pkg/repository/memory"
	"github.com/secmon-lab/refwatch/pkg/usecase"
)

func newLookupUseCase(t *testing.T, gh *mock.GitHubClientMock) (*usecase.UseCase, *model.Repository) {
	t.Helper()
	repo := gt.R1(model.NewRepository("nixpkgs", "https://github.com/NixOS/nixpkgs.git", "master", nil)).NoError(t)
	clients := infra.New(
		infra.WithStateRepo(memory.New()),
		infra.WithGitHub(gh),
	)
	return usecase.New(clients, func() []*model.Repository { return []*model.Repository{repo} }), repo
}

func TestLookupPullRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and caches on miss", func(t *testing.T) {
		gh := &mock.GitHubClientMock{
			GetPullRequestFunc: func(ctx context.Context, info model.GitHubInfo, number int) (*model.PRStatus, error) {
				gt.V(t, info.Owner).Equal("NixOS")
				gt.V(t, number).Equal(42)
				return &model.PRStatus{
					Number:      42,
					State:       types.PRStateMerged,
					MergeCommit: "c9",
					UpdatedAt:   time.Now(),
				}, nil
			},
		}
		uc, _ := newLookupUseCase(t, gh)

		status := gt.R1(uc.LookupPullRequest(ctx, "nixpkgs", 42)).NoError(t)
		gt.V(t, status.State).Equal(types.PRStateMerged)
		gt.A(t, gh.GetPullRequestCalls()).Length(1)

		// Merged is final: the second lookup is served from the cache.
		status = gt.R1(uc.LookupPullRequest(ctx, "nixpkgs", 42)).NoError(t)
		gt.V(t, status.MergeCommit).Equal("c9")
		gt.A(t, gh.GetPullRequestCalls()).Length(1)
	})

	t.Run("open status is refreshed", func(t *testing.T) {
		gh := &mock.GitHubClientMock{
			GetPullRequestFunc: func(ctx context.Context, info model.GitHubInfo, number int) (*model.PRStatus, error) {
				return &model.PRStatus{Number: 7, State: types.PRStateOpen, UpdatedAt: time.Now()}, nil
			},
		}
		uc, _ := newLookupUseCase(t, gh)

		gt.R1(uc.LookupPullRequest(ctx, "nixpkgs", 7)).NoError(t)
		gt.R1(uc.LookupPullRequest(ctx, "nixpkgs", 7)).NoError(t)
		gt.A(t, gh.GetPullRequestCalls()).Length(2)
	})

	t.Run("unknown repository", func(t *testing.T) {
		uc, _ := newLookupUseCase(t, &mock.GitHubClientMock{})
		_, err := uc.LookupPullRequest(ctx, "unknown", 1)
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("lookup failure is propagated", func(t *testing.T) {
		gh := &mock.GitHubClientMock{
			GetPullRequestFunc: func(ctx context.Context, info model.GitHubInfo, number int) (*model.PRStatus, error) {
				return nil, goerr.New("rate limited")
			},
		}
		uc, _ := newLookupUseCase(t, gh)
		_, err := uc.LookupPullRequest(ctx, "nixpkgs", 1)
		gt.Error(t, err)
	})

	t.Run("repository without github info", func(t *testing.T) {
		repo := gt.R1(model.NewRepository("internal", "https://git.example.com/x.git", "master", nil)).NoError(t)
		clients := infra.New(infra.WithStateRepo(memory.New()))
		uc := usecase.New(clients, func() []*model.Repository { return []*model.Repository{repo} })

		_, err := uc.LookupPullRequest(ctx, "internal", 1)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}
