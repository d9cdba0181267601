package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

func obs(branch types.BranchName) model.CommitObservation {
	return model.CommitObservation{
		Repo:   "nixpkgs",
		Branch: branch,
		Commit: "aaaabbbbccccddddaaaabbbbccccddddaaaabbbb",
	}
}

func TestInBranch(t *testing.T) {
	cond := gt.R1(model.NewInBranch("master")).NoError(t)

	t.Run("fires on matching branch", func(t *testing.T) {
		gt.V(t, cond.Evaluate(obs("master"), nil)).Equal(model.DecisionFire)
	})

	t.Run("ignores non-matching branch", func(t *testing.T) {
		gt.V(t, cond.Evaluate(obs("staging"), nil)).Equal(model.DecisionNone)
	})

	t.Run("pattern is anchored to the whole name", func(t *testing.T) {
		gt.V(t, cond.Evaluate(obs("master-next"), nil)).Equal(model.DecisionNone)
		gt.V(t, cond.Evaluate(obs("old-master"), nil)).Equal(model.DecisionNone)
	})

	t.Run("regex pattern matches branch family", func(t *testing.T) {
		family := gt.R1(model.NewInBranch("release-.*")).NoError(t)
		gt.V(t, family.Evaluate(obs("release-24.05"), nil)).Equal(model.DecisionFire)
		gt.V(t, family.Evaluate(obs("master"), nil)).Equal(model.DecisionNone)
	})

	t.Run("rejects invalid pattern", func(t *testing.T) {
		_, err := model.NewInBranch("[")
		gt.Error(t, err)
	})
}

func TestSuppressFromTo(t *testing.T) {
	cond := gt.R1(model.NewSuppressFromTo("staging.*", "master")).NoError(t)

	t.Run("suppresses when commit was known on a from-branch", func(t *testing.T) {
		known := []types.BranchName{"staging-next"}
		gt.V(t, cond.Evaluate(obs("master"), known)).Equal(model.DecisionSuppress)
	})

	t.Run("no suppression without a known from-branch", func(t *testing.T) {
		gt.V(t, cond.Evaluate(obs("master"), nil)).Equal(model.DecisionNone)
		gt.V(t, cond.Evaluate(obs("master"), []types.BranchName{"release-24.05"})).Equal(model.DecisionNone)
	})

	t.Run("applies only to the to-branch", func(t *testing.T) {
		known := []types.BranchName{"staging-next"}
		gt.V(t, cond.Evaluate(obs("release-24.05"), known)).Equal(model.DecisionNone)
	})

	t.Run("never fires by itself", func(t *testing.T) {
		gt.V(t, cond.Evaluate(obs("master"), []types.BranchName{"staging"})).NotEqual(model.DecisionFire)
	})

	t.Run("rejects invalid patterns", func(t *testing.T) {
		_, err := model.NewSuppressFromTo("[", "master")
		gt.Error(t, err)

		_, err = model.NewSuppressFromTo("staging", "[")
		gt.Error(t, err)
	})
}
