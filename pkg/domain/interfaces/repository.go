package interfaces

import (
	"context"

	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

// StateRepository is the durable store of last-observed branch state, the
// commit index and the PR status cache. All mutation goes through
// CommitCycle, which is atomic per repository.
type StateRepository interface {
	// GetBranchState returns the last committed state of a branch, or
	// repository.ErrNotFound if the branch was never baselined.
	GetBranchState(ctx context.Context, repo types.RepoName, branch types.BranchName) (*model.BranchState, error)
	ListBranchStates(ctx context.Context, repo types.RepoName) ([]*model.BranchState, error)

	// HasCommit reports whether the commit is recorded in the index of the
	// given branch.
	HasCommit(ctx context.Context, repo types.RepoName, branch types.BranchName, commit types.CommitID) (bool, error)
	// BranchesOfCommit returns the branches on which the commit is recorded.
	BranchesOfCommit(ctx context.Context, repo types.RepoName, commit types.CommitID) ([]types.BranchName, error)

	// CommitCycle durably applies one cycle's updates for one repository.
	// Either every update in the commit is recorded or none of them.
	CommitCycle(ctx context.Context, repo types.RepoName, commit *model.CycleCommit) error

	// PR status cache. Absence is not an error condition worth wrapping:
	// GetPRStatus returns repository.ErrNotFound on a miss.
	GetPRStatus(ctx context.Context, repo types.RepoName, number int) (*model.PRStatus, error)
	PutPRStatus(ctx context.Context, repo types.RepoName, pr *model.PRStatus) error
}
