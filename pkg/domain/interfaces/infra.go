package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . Mirror GitHubClient Notifier SubscriptionRegistry

import (
	"context"

	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

// Mirror owns the local clones of tracked repositories. Implementations must
// serialize operations on one clone against themselves.
type Mirror interface {
	// Sync fetches the remote and returns the tracked branches (those
	// matching the repository's branch pattern) with their current tips,
	// ordered by branch name. Branches deleted upstream are absent from the
	// result.
	Sync(ctx context.Context, repo *model.Repository) ([]model.BranchHead, error)

	// NewCommits walks the commit graph from head and collects commits for
	// which known reports false, in discovery order. The walk stops at known
	// commits.
	NewCommits(ctx context.Context, repo types.RepoName, head types.CommitID, known func(types.CommitID) (bool, error)) ([]types.CommitID, error)

	// IsAncestor reports whether older is reachable from newer, the
	// fast-forward test for branch updates.
	IsAncestor(ctx context.Context, repo types.RepoName, older, newer types.CommitID) (bool, error)
}

// GitHubClient resolves pull request status via the GitHub REST API.
type GitHubClient interface {
	GetPullRequest(ctx context.Context, info model.GitHubInfo, number int) (*model.PRStatus, error)
}

// DeliveryResult is the per-subscriber outcome of one dispatch.
type DeliveryResult struct {
	Chat  types.ChatID
	Error error
}

// Notifier delivers a notification event to a set of chat endpoints. Delivery
// failures are reported per subscriber and are never fatal.
type Notifier interface {
	Deliver(ctx context.Context, chats []types.ChatID, ev model.NotificationEvent) []DeliveryResult
}

// SubscriptionRegistry maps (repository, condition) to subscribed chats. It
// is owned by the chat/admin side; the engine only reads it.
type SubscriptionRegistry interface {
	Subscribers(ctx context.Context, repo types.RepoName, cond types.ConditionName) ([]types.ChatID, error)
}
