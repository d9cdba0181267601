package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

// Repository is the tracking configuration of one remote git repository. It
// is owned by the configuration store; the check cycle reads a snapshot of it
// and never mutates it.
type Repository struct {
	Name        types.RepoName
	Remote      string
	BranchRegex *regexp.Regexp
	GitHub      *GitHubInfo
	Conditions  []NamedCondition
	CreatedAt   time.Time
}

// NewRepository validates and builds a repository configuration. The branch
// pattern is anchored to the whole branch name. Condition names must be
// unique within a repository.
func NewRepository(name types.RepoName, remote, branchPattern string, conditions []NamedCondition) (*Repository, error) {
	if name == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "repository name is empty")
	}
	if remote == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "repository remote is empty", goerr.V("name", name))
	}

	re, err := CompileAnchored(branchPattern)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid branch pattern", goerr.V("name", name))
	}

	seen := map[types.ConditionName]struct{}{}
	for _, c := range conditions {
		if _, ok := seen[c.Name]; ok {
			return nil, goerr.Wrap(types.ErrDuplicateName, "condition name is not unique",
				goerr.V("repo", name),
				goerr.V("condition", c.Name),
			)
		}
		seen[c.Name] = struct{}{}
	}

	return &Repository{
		Name:        name,
		Remote:      remote,
		BranchRegex: re,
		GitHub:      githubInfoFromRemote(remote),
		Conditions:  conditions,
	}, nil
}

// Clone returns a deep enough copy for the coordinator's copy-on-read
// snapshot. Compiled regexps are immutable and shared.
func (x *Repository) Clone() *Repository {
	dup := *x
	dup.Conditions = make([]NamedCondition, len(x.Conditions))
	copy(dup.Conditions, x.Conditions)
	if x.GitHub != nil {
		gh := *x.GitHub
		dup.GitHub = &gh
	}
	return &dup
}

// CompileAnchored compiles a pattern so that it must match the whole subject,
// the same contract the conditions use for branch names.
func CompileAnchored(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, goerr.Wrap(types.ErrInvalidRegex, "pattern is empty")
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidRegex, err.Error(), goerr.V("pattern", pattern))
	}
	return re, nil
}

// GitHubInfo identifies the GitHub project behind a tracked repository, used
// for PR status lookups and message links.
type GitHubInfo struct {
	Owner string
	Repo  string
}

func (x GitHubInfo) String() string {
	return x.Owner + "/" + x.Repo
}

func (x GitHubInfo) CommitURL(commit types.CommitID) string {
	return fmt.Sprintf("https://github.com/%s/%s/commit/%s", x.Owner, x.Repo, commit)
}

func (x GitHubInfo) PullURL(number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", x.Owner, x.Repo, number)
}

// ParseGitHubInfo parses "owner/repo".
func ParseGitHubInfo(s string) (*GitHubInfo, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "github info must be 'owner/repo'", goerr.V("value", s))
	}
	return &GitHubInfo{Owner: parts[0], Repo: parts[1]}, nil
}

var githubRemoteRe = regexp.MustCompile(`^(?:https://|git@)github\.com[:/]([a-zA-Z0-9_.-]+)/([a-zA-Z0-9_.-]+?)(?:\.git)?$`)

func githubInfoFromRemote(remote string) *GitHubInfo {
	m := githubRemoteRe.FindStringSubmatch(remote)
	if m == nil {
		return nil
	}
	return &GitHubInfo{Owner: m[1], Repo: m[2]}
}
