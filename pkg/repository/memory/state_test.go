package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/repository"
	"github.com/secmon-lab/refwatch/pkg/repository/memory"
)

func TestBranchState(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	t.Run("unknown repository", func(t *testing.T) {
		_, err := store.GetBranchState(ctx, "nixpkgs", "master")
		gt.True(t, errors.Is(err, repository.ErrNotFound))

		states := gt.R1(store.ListBranchStates(ctx, "nixpkgs")).NoError(t)
		gt.A(t, states).Length(0)
	})

	t.Run("commit and read back", func(t *testing.T) {
		now := time.Now()
		gt.NoError(t, store.CommitCycle(ctx, "nixpkgs", &model.CycleCommit{
			BranchUpdates: []model.BranchState{
				{Branch: "master", Commit: "c1", CheckedAt: now},
				{Branch: "staging-next", Commit: "c2", CheckedAt: now},
			},
		}))

		state := gt.R1(store.GetBranchState(ctx, "nixpkgs", "master")).NoError(t)
		gt.V(t, state.Commit).Equal("c1")

		states := gt.R1(store.ListBranchStates(ctx, "nixpkgs")).NoError(t)
		gt.A(t, states).Length(2)

		_, err := store.GetBranchState(ctx, "nixpkgs", "release-24.05")
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("returned state is a copy", func(t *testing.T) {
		state := gt.R1(store.GetBranchState(ctx, "nixpkgs", "master")).NoError(t)
		state.Commit = "tampered"

		again := gt.R1(store.GetBranchState(ctx, "nixpkgs", "master")).NoError(t)
		gt.V(t, again.Commit).Equal("c1")
	})
}

func TestCommitIndex(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	gt.NoError(t, store.CommitCycle(ctx, "nixpkgs", &model.CycleCommit{
		IndexAdds: []model.BranchCommit{
			{Branch: "master", Commit: "c1"},
			{Branch: "staging-next", Commit: "c1"},
			{Branch: "staging-next", Commit: "c2"},
		},
	}))

	t.Run("has commit is per branch", func(t *testing.T) {
		gt.True(t, gt.R1(store.HasCommit(ctx, "nixpkgs", "master", "c1")).NoError(t))
		gt.False(t, gt.R1(store.HasCommit(ctx, "nixpkgs", "master", "c2")).NoError(t))
		gt.True(t, gt.R1(store.HasCommit(ctx, "nixpkgs", "staging-next", "c2")).NoError(t))
	})

	t.Run("branches of commit", func(t *testing.T) {
		branches := gt.R1(store.BranchesOfCommit(ctx, "nixpkgs", "c1")).NoError(t)
		gt.A(t, branches).Length(2)

		branches = gt.R1(store.BranchesOfCommit(ctx, "nixpkgs", "c9")).NoError(t)
		gt.A(t, branches).Length(0)
	})

	t.Run("repositories are isolated", func(t *testing.T) {
		gt.False(t, gt.R1(store.HasCommit(ctx, "other", "master", "c1")).NoError(t))
	})

	t.Run("removals clear only the named branch", func(t *testing.T) {
		gt.NoError(t, store.CommitCycle(ctx, "nixpkgs", &model.CycleCommit{
			IndexRemovals: []types.BranchName{"staging-next"},
			IndexAdds:     []model.BranchCommit{{Branch: "staging-next", Commit: "r1"}},
		}))

		gt.False(t, gt.R1(store.HasCommit(ctx, "nixpkgs", "staging-next", "c1")).NoError(t))
		gt.False(t, gt.R1(store.HasCommit(ctx, "nixpkgs", "staging-next", "c2")).NoError(t))
		gt.True(t, gt.R1(store.HasCommit(ctx, "nixpkgs", "staging-next", "r1")).NoError(t))
		gt.True(t, gt.R1(store.HasCommit(ctx, "nixpkgs", "master", "c1")).NoError(t))
	})
}

func TestPRCache(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	t.Run("miss", func(t *testing.T) {
		_, err := store.GetPRStatus(ctx, "nixpkgs", 42)
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("put and get", func(t *testing.T) {
		gt.NoError(t, store.PutPRStatus(ctx, "nixpkgs", &model.PRStatus{
			Number:      42,
			State:       types.PRStateMerged,
			MergeCommit: "c9",
			UpdatedAt:   time.Now(),
		}))

		pr := gt.R1(store.GetPRStatus(ctx, "nixpkgs", 42)).NoError(t)
		gt.V(t, pr.State).Equal(types.PRStateMerged)
		gt.V(t, pr.MergeCommit).Equal("c9")
	})

	t.Run("put overwrites", func(t *testing.T) {
		gt.NoError(t, store.PutPRStatus(ctx, "nixpkgs", &model.PRStatus{
			Number: 42,
			State:  types.PRStateClosed,
		}))

		pr := gt.R1(store.GetPRStatus(ctx, "nixpkgs", 42)).NoError(t)
		gt.V(t, pr.State).Equal(types.PRStateClosed)
	})

	t.Run("cycle commit carries PR cache entries", func(t *testing.T) {
		gt.NoError(t, store.CommitCycle(ctx, "nixpkgs", &model.CycleCommit{
			PRCache: []model.PRStatus{{Number: 7, State: types.PRStateOpen}},
		}))

		pr := gt.R1(store.GetPRStatus(ctx, "nixpkgs", 7)).NoError(t)
		gt.V(t, pr.State).Equal(types.PRStateOpen)
	})
}
