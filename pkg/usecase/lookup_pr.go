package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/repository"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
)

// LookupPullRequest resolves the merge status of a pull request, serving
// final states (merged, closed) from the cache and refreshing open ones. The
// cache is best effort: a write failure only costs the next lookup a fetch.
func (x *UseCase) LookupPullRequest(ctx context.Context, repoName types.RepoName, number int) (*model.PRStatus, error) {
	var repo *model.Repository
	for _, r := range x.Repositories() {
		if r.Name == repoName {
			repo = r
			break
		}
	}
	if repo == nil {
		return nil, goerr.Wrap(repository.ErrNotFound, "unknown repository", goerr.V("repo", repoName))
	}
	if repo.GitHub == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "repository has no github_info", goerr.V("repo", repoName))
	}

	store := x.clients.StateRepo()

	cached, err := store.GetPRStatus(ctx, repoName, number)
	if err == nil && cached.State != types.PRStateOpen {
		return cached, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logging.From(ctx).Warn("PR cache read failed, falling back to lookup",
			"repo", repoName,
			"number", number,
			"error", err,
		)
	}

	gh := x.clients.GitHub()
	if gh == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "no GitHub client configured")
	}

	status, err := gh.GetPullRequest(ctx, *repo.GitHub, number)
	if err != nil {
		return nil, err
	}

	if err := store.PutPRStatus(ctx, repoName, status); err != nil {
		logging.From(ctx).Warn("failed to cache PR status",
			"repo", repoName,
			"number", number,
			"error", err,
		)
	}

	return status, nil
}
