package model

import (
	"time"

	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

// BranchHead is one entry of a mirror sync result: a tracked branch and its
// current tip.
type BranchHead struct {
	Name   types.BranchName
	Commit types.CommitID
}

// BranchState is the durable last-observed state of one branch. Entries for
// branches deleted upstream are retained, never garbage collected.
type BranchState struct {
	Branch    types.BranchName
	Commit    types.CommitID
	CheckedAt time.Time
}

// CommitObservation records one commit newly revealed on one branch during a
// cycle. It lives only within that cycle.
type CommitObservation struct {
	Repo       types.RepoName
	Branch     types.BranchName
	Commit     types.CommitID
	ObservedAt time.Time
}

// BranchCommit is one row of the commit index: the commit is reachable from
// the branch's recorded tip.
type BranchCommit struct {
	Branch types.BranchName
	Commit types.CommitID
}

// CycleCommit is the atomic per-repository state update applied at the end of
// a cycle. Either all of it is recorded or none of it.
type CycleCommit struct {
	BranchUpdates []BranchState
	IndexAdds     []BranchCommit
	// IndexRemovals clears the commit index of branches being re-baselined
	// after a non-fast-forward update.
	IndexRemovals []types.BranchName
	PRCache       []PRStatus
}

func (x *CycleCommit) Empty() bool {
	return len(x.BranchUpdates) == 0 && len(x.IndexAdds) == 0 &&
		len(x.IndexRemovals) == 0 && len(x.PRCache) == 0
}

// PRStatus is a cached merge-status lookup result. It is a cache entry, never
// a source of truth: staleness may only cost message enrichment, not
// correctness.
type PRStatus struct {
	Number      int
	State       types.PRState
	MergeCommit types.CommitID
	UpdatedAt   time.Time
}
