package model

import (
	"fmt"
	"regexp"

	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

// ConditionKind tags the closed set of condition variants. Adding a kind is a
// controlled extension: a new constructor, a new Evaluate branch, nothing else.
type ConditionKind string

const (
	KindInBranch       ConditionKind = "in_branch"
	KindSuppressFromTo ConditionKind = "suppress_from_to"
)

// Decision is the outcome of evaluating one condition against one commit
// observation.
type Decision int

const (
	// DecisionNone means the condition does not apply to the observation.
	DecisionNone Decision = iota
	// DecisionFire means the condition emits a notification event.
	DecisionFire
	// DecisionSuppress means all events for this (commit, branch) pair are
	// withheld.
	DecisionSuppress
)

// Condition is a pure predicate over (commit, branch, known branch set). It
// never consults wall-clock time or mutable state beyond its arguments.
// Conditions are constructed only through the New* constructors, which
// validate the patterns; an unvalidated condition reaching Evaluate is a
// programmer error.
type Condition struct {
	kind        ConditionKind
	branchRegex *regexp.Regexp // in_branch
	fromRegex   *regexp.Regexp // suppress_from_to
	toRegex     *regexp.Regexp // suppress_from_to
}

// NamedCondition pairs a condition with its repository-unique name, kept in
// the repository's declared order.
type NamedCondition struct {
	Name types.ConditionName
	Cond Condition
}

// NewInBranch builds a condition that fires when a commit is newly observed
// on a branch matching the pattern.
func NewInBranch(branchPattern string) (Condition, error) {
	re, err := CompileAnchored(branchPattern)
	if err != nil {
		return Condition{}, err
	}
	return Condition{kind: KindInBranch, branchRegex: re}, nil
}

// NewSuppressFromTo builds a condition that withholds notifications for a
// commit observed on a branch matching `to` when the same commit was already
// known on some branch matching `from`.
func NewSuppressFromTo(fromPattern, toPattern string) (Condition, error) {
	from, err := CompileAnchored(fromPattern)
	if err != nil {
		return Condition{}, err
	}
	to, err := CompileAnchored(toPattern)
	if err != nil {
		return Condition{}, err
	}
	return Condition{kind: KindSuppressFromTo, fromRegex: from, toRegex: to}, nil
}

func (x Condition) Kind() ConditionKind { return x.kind }

// Evaluate decides what this condition does for one commit observation.
// knownBranches is the set of branches on which the commit was already
// recorded before this cycle, excluding the observation's own branch.
func (x Condition) Evaluate(obs CommitObservation, knownBranches []types.BranchName) Decision {
	switch x.kind {
	case KindInBranch:
		if x.branchRegex.MatchString(string(obs.Branch)) {
			return DecisionFire
		}
		return DecisionNone

	case KindSuppressFromTo:
		if !x.toRegex.MatchString(string(obs.Branch)) {
			return DecisionNone
		}
		for _, b := range knownBranches {
			if x.fromRegex.MatchString(string(b)) {
				return DecisionSuppress
			}
		}
		return DecisionNone

	default:
		panic(fmt.Sprintf("unknown condition kind: %q", x.kind))
	}
}
