package model

import (
	"fmt"
	"time"

	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

// NotificationEvent is one decided notification. Re-delivery is idempotent
// from the engine's point of view; deduplication against chat history, if
// any, belongs to the subscription side.
type NotificationEvent struct {
	Repo      types.RepoName
	Branch    types.BranchName
	Condition types.ConditionName
	Commit    types.CommitID
	Message   string
}

// RenderCommitMessage builds the text delivered for a fired condition. A
// commit link is attached when the repository is known to live on GitHub.
func RenderCommitMessage(repo *Repository, branch types.BranchName, commit types.CommitID) string {
	msg := fmt.Sprintf("commit %s reached %s on %s", commit.Short(), branch, repo.Name)
	if repo.GitHub != nil {
		msg += "\n" + repo.GitHub.CommitURL(commit)
	}
	return msg
}

// RenderPRMergedMessage builds the text for a resolved pull request merge.
func RenderPRMergedMessage(repo *Repository, pr PRStatus) string {
	msg := fmt.Sprintf("PR #%d of %s was merged", pr.Number, repo.Name)
	if pr.MergeCommit != "" {
		msg += fmt.Sprintf(" as %s", pr.MergeCommit.Short())
	}
	if repo.GitHub != nil {
		msg += "\n" + repo.GitHub.PullURL(pr.Number)
	}
	return msg
}

// CycleFailure reports one repository skipped during a cycle.
type CycleFailure struct {
	Repo  types.RepoName `json:"repo"`
	Error string         `json:"error"`
}

// CycleResult summarizes one full check cycle.
type CycleResult struct {
	ID            types.CycleID  `json:"id"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	Repositories  int            `json:"repositories"`
	Notifications int            `json:"notifications"`
	Failures      []CycleFailure `json:"failures,omitempty"`
}
