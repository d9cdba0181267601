package usecase

import (
	"context"

	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
)

// evaluateRepository runs the repository's conditions over this cycle's
// commit observations. Conditions are evaluated in declared order and never
// affect each other's decisions; a matching suppression withholds every event
// for its (commit, branch) pair, and nothing else.
//
// The known-branch set of a commit comes from the state committed by earlier
// cycles: two branches revealing the same commit within one cycle do not
// suppress each other.
func (x *UseCase) evaluateRepository(ctx context.Context, repo *model.Repository, observations []model.CommitObservation) ([]model.NotificationEvent, error) {
	if len(repo.Conditions) == 0 {
		// Conditions are opt-in: without them a repository never notifies.
		return nil, nil
	}

	store := x.clients.StateRepo()
	var events []model.NotificationEvent

	for _, obs := range observations {
		known, err := store.BranchesOfCommit(ctx, repo.Name, obs.Commit)
		if err != nil {
			return nil, err
		}
		var knownBranches []types.BranchName
		for _, b := range known {
			if b != obs.Branch {
				knownBranches = append(knownBranches, b)
			}
		}

		suppressed := false
		var fired []types.ConditionName
		for _, nc := range repo.Conditions {
			switch nc.Cond.Evaluate(obs, knownBranches) {
			case model.DecisionSuppress:
				suppressed = true
			case model.DecisionFire:
				fired = append(fired, nc.Name)
			}
		}

		if suppressed {
			logging.From(ctx).Info("notification suppressed",
				"repo", repo.Name,
				"branch", obs.Branch,
				"commit", obs.Commit,
			)
			continue
		}

		for _, name := range fired {
			events = append(events, model.NotificationEvent{
				Repo:      repo.Name,
				Branch:    obs.Branch,
				Condition: name,
				Commit:    obs.Commit,
				Message:   model.RenderCommitMessage(repo, obs.Branch, obs.Commit),
			})
		}
	}

	return events, nil
}
