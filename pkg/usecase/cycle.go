package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/utils/errutil"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
)

// RunCheckCycle executes one full pass over all configured repositories:
// sync mirrors, diff against stored state, evaluate conditions, dispatch
// notifications, commit new state. Only one cycle runs at a time; a request
// arriving during an active cycle fails with types.ErrCycleActive and is
// expected to be dropped by the caller.
//
// Per-repository failures are isolated: they are reported in the result and
// do not abort the cycle. Dispatch failures never block the state commit —
// re-deriving the same commits next cycle would duplicate notifications,
// which is worse than a dropped one.
func (x *UseCase) RunCheckCycle(ctx context.Context) (*model.CycleResult, error) {
	if !x.cycleMu.TryLock() {
		return nil, goerr.Wrap(types.ErrCycleActive, "dropping check cycle request")
	}
	defer x.cycleMu.Unlock()

	cycleID := types.NewCycleID()
	ctx = logging.With(ctx, logging.From(ctx).With("cycle", cycleID))

	result := &model.CycleResult{
		ID:        cycleID,
		StartedAt: logging.CtxTime(ctx),
	}

	repos := x.Repositories()
	logging.From(ctx).Info("starting check cycle", "repositories", len(repos))

	for _, repo := range repos {
		events, commit, err := x.checkRepository(ctx, repo)
		if err != nil {
			errutil.HandleError(ctx, "repository check failed", goerr.Wrap(err, "skipping repository", goerr.V("repo", repo.Name)))
			result.Failures = append(result.Failures, model.CycleFailure{
				Repo:  repo.Name,
				Error: err.Error(),
			})
			continue
		}

		x.dispatch(ctx, events)

		if err := x.clients.StateRepo().CommitCycle(ctx, repo.Name, commit); err != nil {
			errutil.HandleError(ctx, "failed to commit cycle state", goerr.Wrap(err, "state not advanced", goerr.V("repo", repo.Name)))
			result.Failures = append(result.Failures, model.CycleFailure{
				Repo:  repo.Name,
				Error: err.Error(),
			})
			continue
		}

		result.Repositories++
		result.Notifications += len(events)
	}

	result.FinishedAt = logging.CtxTime(ctx)
	logging.From(ctx).Info("check cycle finished",
		"repositories", result.Repositories,
		"notifications", result.Notifications,
		"failures", len(result.Failures),
	)

	return result, nil
}

// checkRepository syncs one repository's mirror, computes the commit
// observations of this cycle, and evaluates the repository's conditions. It
// returns the notification events and the state update to commit. Nothing is
// persisted here.
func (x *UseCase) checkRepository(ctx context.Context, repo *model.Repository) ([]model.NotificationEvent, *model.CycleCommit, error) {
	heads, err := x.clients.Mirror().Sync(ctx, repo)
	if err != nil {
		return nil, nil, err
	}

	store := x.clients.StateRepo()
	now := logging.CtxTime(ctx)

	states, err := store.ListBranchStates(ctx, repo.Name)
	if err != nil {
		return nil, nil, err
	}
	prior := make(map[types.BranchName]*model.BranchState, len(states))
	for _, s := range states {
		prior[s.Branch] = s
	}

	commit := &model.CycleCommit{}
	var observations []model.CommitObservation

	for _, head := range heads {
		prev, tracked := prior[head.Name]

		switch {
		case !tracked:
			// First sight of this branch (or of the whole repository):
			// baseline silently, no observations.
			if err := x.baselineBranch(ctx, repo, head, commit); err != nil {
				return nil, nil, err
			}

		case prev.Commit == head.Commit:
			commit.BranchUpdates = append(commit.BranchUpdates, model.BranchState{
				Branch:    head.Name,
				Commit:    head.Commit,
				CheckedAt: now,
			})

		default:
			ff, err := x.clients.Mirror().IsAncestor(ctx, repo.Name, prev.Commit, head.Commit)
			if err != nil {
				return nil, nil, err
			}
			if !ff {
				// Non-fast-forward update. The old history is gone; the
				// branch is re-baselined without notifications.
				logging.From(ctx).Warn("non-fast-forward branch update, re-baselining",
					"repo", repo.Name,
					"branch", head.Name,
					"old", prev.Commit,
					"new", head.Commit,
				)
				commit.IndexRemovals = append(commit.IndexRemovals, head.Name)
				if err := x.rebaselineBranch(ctx, repo, head, commit); err != nil {
					return nil, nil, err
				}
				break
			}

			newCommits, err := x.clients.Mirror().NewCommits(ctx, repo.Name, head.Commit, func(c types.CommitID) (bool, error) {
				return store.HasCommit(ctx, repo.Name, head.Name, c)
			})
			if err != nil {
				return nil, nil, err
			}

			for _, c := range newCommits {
				observations = append(observations, model.CommitObservation{
					Repo:       repo.Name,
					Branch:     head.Name,
					Commit:     c,
					ObservedAt: now,
				})
				commit.IndexAdds = append(commit.IndexAdds, model.BranchCommit{
					Branch: head.Name,
					Commit: c,
				})
			}
			commit.BranchUpdates = append(commit.BranchUpdates, model.BranchState{
				Branch:    head.Name,
				Commit:    head.Commit,
				CheckedAt: now,
			})
		}
	}

	// Branches deleted upstream keep their state: historical notifications
	// referencing them must stay meaningful.

	events, err := x.evaluateRepository(ctx, repo, observations)
	if err != nil {
		return nil, nil, err
	}

	return events, commit, nil
}

// baselineBranch records a branch seen for the first time: its whole commit
// set enters the index and its tip becomes the branch state.
func (x *UseCase) baselineBranch(ctx context.Context, repo *model.Repository, head model.BranchHead, commit *model.CycleCommit) error {
	store := x.clients.StateRepo()

	commits, err := x.clients.Mirror().NewCommits(ctx, repo.Name, head.Commit, func(c types.CommitID) (bool, error) {
		return store.HasCommit(ctx, repo.Name, head.Name, c)
	})
	if err != nil {
		return err
	}

	logging.From(ctx).Info("baselining branch",
		"repo", repo.Name,
		"branch", head.Name,
		"commits", len(commits),
	)

	for _, c := range commits {
		commit.IndexAdds = append(commit.IndexAdds, model.BranchCommit{Branch: head.Name, Commit: c})
	}
	commit.BranchUpdates = append(commit.BranchUpdates, model.BranchState{
		Branch:    head.Name,
		Commit:    head.Commit,
		CheckedAt: logging.CtxTime(ctx),
	})

	return nil
}

// rebaselineBranch records the full reachable set of a re-written branch.
// The caller has already scheduled the removal of the branch's old index
// rows, so the walk must not consult the store.
func (x *UseCase) rebaselineBranch(ctx context.Context, repo *model.Repository, head model.BranchHead, commit *model.CycleCommit) error {
	commits, err := x.clients.Mirror().NewCommits(ctx, repo.Name, head.Commit, func(types.CommitID) (bool, error) {
		return false, nil
	})
	if err != nil {
		return err
	}

	for _, c := range commits {
		commit.IndexAdds = append(commit.IndexAdds, model.BranchCommit{Branch: head.Name, Commit: c})
	}
	commit.BranchUpdates = append(commit.BranchUpdates, model.BranchState{
		Branch:    head.Name,
		Commit:    head.Commit,
		CheckedAt: logging.CtxTime(ctx),
	})

	return nil
}

// dispatch routes notification events through the subscription registry to
// the notifier. Failures are logged per subscriber and never abort anything.
func (x *UseCase) dispatch(ctx context.Context, events []model.NotificationEvent) {
	subs := x.clients.Subscriptions()
	notifier := x.clients.Notifier()
	if subs == nil || notifier == nil {
		if len(events) > 0 {
			logging.From(ctx).Debug("no dispatch path configured, dropping events", "events", len(events))
		}
		return
	}

	for _, ev := range events {
		chats, err := subs.Subscribers(ctx, ev.Repo, ev.Condition)
		if err != nil {
			errutil.HandleError(ctx, "failed to resolve subscribers", err)
			continue
		}
		if len(chats) == 0 {
			continue
		}

		for _, res := range notifier.Deliver(ctx, chats, ev) {
			if res.Error != nil {
				logging.From(ctx).Warn("notification delivery failed",
					"chat", res.Chat,
					"repo", ev.Repo,
					"condition", ev.Condition,
					"error", res.Error,
				)
			}
		}
	}
}

// IsCycleActive reports whether err denotes a dropped cycle request.
func IsCycleActive(err error) bool {
	return errors.Is(err, types.ErrCycleActive)
}
