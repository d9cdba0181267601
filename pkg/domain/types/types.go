package types

import (
	"log/slog"

	"github.com/google/uuid"
)

type (
	RepoName      string
	BranchName    string
	CommitID      string
	ConditionName string
	ChatID        string
	CycleID       string
	RequestID     string

	GitHubToken         string
	GitHubAppID         int64
	GitHubAppInstallID  int64
	GitHubAppPrivateKey string

	PRState string
)

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// NewCycleID issues an ID for one check cycle, used to correlate log records
// of a single pass.
func NewCycleID() CycleID {
	return CycleID(uuid.NewString())
}

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

// Short returns the abbreviated commit ID used in rendered messages.
func (x CommitID) Short() string {
	if len(x) > 12 {
		return string(x[:12])
	}
	return string(x)
}

func (x GitHubToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubToken) String() string {
	return "***********"
}

func (x GitHubAppPrivateKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppPrivateKey) String() string {
	return "***********"
}
