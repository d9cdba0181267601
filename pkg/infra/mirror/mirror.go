package mirror

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
)

const originName = "origin"

// headsFetchSpec mirrors every upstream branch into the local refs/heads
// namespace. The clones are bare and never checked out.
var headsFetchSpec = []gitconfig.RefSpec{"+refs/heads/*:refs/heads/*"}

const defaultFetchTimeout = 10 * time.Minute

// Manager keeps one bare clone per tracked repository under a root directory
// and serializes operations per clone. Corrupted clones are rebuilt in place.
type Manager struct {
	root         string
	fetchTimeout time.Duration

	mu     sync.Mutex
	clones map[types.RepoName]*clone
}

var _ interfaces.Mirror = (*Manager)(nil)

type clone struct {
	mu   sync.Mutex
	dir  string
	repo *git.Repository
}

type Option func(*Manager)

// WithFetchTimeout bounds one fetch. A fetch hitting the bound is treated as
// a network failure so the next cycle is not starved by an unreachable
// remote.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.fetchTimeout = d
	}
}

func New(root string, options ...Option) *Manager {
	m := &Manager{
		root:         root,
		fetchTimeout: defaultFetchTimeout,
		clones:       make(map[types.RepoName]*clone),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Manager) cloneOf(name types.RepoName) *clone {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, exists := m.clones[name]
	if !exists {
		c = &clone{dir: filepath.Join(m.root, string(name))}
		m.clones[name] = c
	}
	return c
}

// Sync fetches the remote and returns tracked branch heads sorted by name.
// On a corrupt local clone the directory is rebuilt from scratch and the
// fetch retried once.
func (m *Manager) Sync(ctx context.Context, repo *model.Repository) ([]model.BranchHead, error) {
	c := m.cloneOf(repo.Name)
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := m.syncClone(ctx, c, repo); err != nil {
		if !errors.Is(err, types.ErrMirrorCorrupt) {
			return nil, err
		}

		logging.From(ctx).Warn("rebuilding corrupt clone",
			"repo", repo.Name,
			"dir", c.dir,
			"error", err,
		)
		if rmErr := os.RemoveAll(c.dir); rmErr != nil {
			return nil, goerr.Wrap(types.ErrMirrorCorrupt, "failed to remove corrupt clone",
				goerr.V("repo", repo.Name),
				goerr.V("dir", c.dir),
			)
		}
		c.repo = nil

		if err := m.syncClone(ctx, c, repo); err != nil {
			return nil, err
		}
	}

	return trackedHeads(c.repo, repo)
}

func (m *Manager) syncClone(ctx context.Context, c *clone, repo *model.Repository) error {
	if c.repo == nil {
		r, err := openOrInit(c.dir, repo.Remote)
		if err != nil {
			return goerr.Wrap(types.ErrMirrorCorrupt, err.Error(),
				goerr.V("repo", repo.Name),
				goerr.V("dir", c.dir),
			)
		}
		c.repo = r
	}

	ctx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	defer cancel()

	err := c.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: originName,
		RefSpecs:   headsFetchSpec,
		Prune:      true,
		Tags:       git.NoTags,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil

	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return nil

	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return goerr.Wrap(types.ErrMirrorAuth, err.Error(), goerr.V("repo", repo.Name))

	case isCorruptionErr(err):
		return goerr.Wrap(types.ErrMirrorCorrupt, err.Error(), goerr.V("repo", repo.Name))

	default:
		return goerr.Wrap(types.ErrMirrorNetwork, err.Error(),
			goerr.V("repo", repo.Name),
			goerr.V("remote", repo.Remote),
		)
	}
}

// NewCommits walks parents breadth-first from head, collecting commits the
// known callback does not recognize. The walk never descends past a known
// commit.
func (m *Manager) NewCommits(ctx context.Context, repo types.RepoName, head types.CommitID, known func(types.CommitID) (bool, error)) ([]types.CommitID, error) {
	c := m.cloneOf(repo)
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.repo == nil {
		r, err := openOrInit(c.dir, "")
		if err != nil {
			return nil, goerr.Wrap(types.ErrMirrorCorrupt, err.Error(), goerr.V("repo", repo))
		}
		c.repo = r
	}

	var commits []types.CommitID
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{plumbing.NewHash(string(head))}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "commit walk canceled", goerr.V("repo", repo))
		}

		h := queue[0]
		queue = queue[1:]
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}

		id := types.CommitID(h.String())
		isKnown, err := known(id)
		if err != nil {
			return nil, err
		}
		if isKnown {
			continue
		}

		commit, err := c.repo.CommitObject(h)
		if err != nil {
			return nil, goerr.Wrap(types.ErrMirrorCorrupt, err.Error(),
				goerr.V("repo", repo),
				goerr.V("commit", id),
			)
		}

		commits = append(commits, id)
		queue = append(queue, commit.ParentHashes...)
	}

	return commits, nil
}

// IsAncestor reports whether older is reachable from newer.
func (m *Manager) IsAncestor(ctx context.Context, repo types.RepoName, older, newer types.CommitID) (bool, error) {
	c := m.cloneOf(repo)
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.repo == nil {
		r, err := openOrInit(c.dir, "")
		if err != nil {
			return false, goerr.Wrap(types.ErrMirrorCorrupt, err.Error(), goerr.V("repo", repo))
		}
		c.repo = r
	}

	olderCommit, err := c.repo.CommitObject(plumbing.NewHash(string(older)))
	if err != nil {
		return false, goerr.Wrap(err, "failed to load commit", goerr.V("repo", repo), goerr.V("commit", older))
	}
	newerCommit, err := c.repo.CommitObject(plumbing.NewHash(string(newer)))
	if err != nil {
		return false, goerr.Wrap(err, "failed to load commit", goerr.V("repo", repo), goerr.V("commit", newer))
	}

	ok, err := olderCommit.IsAncestor(newerCommit)
	if err != nil {
		return false, goerr.Wrap(err, "ancestry check failed", goerr.V("repo", repo))
	}
	return ok, nil
}

func trackedHeads(r *git.Repository, repo *model.Repository) ([]model.BranchHead, error) {
	refs, err := r.References()
	if err != nil {
		return nil, goerr.Wrap(types.ErrMirrorCorrupt, err.Error(), goerr.V("repo", repo.Name))
	}

	var heads []model.BranchHead
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() {
			return nil
		}
		name := strings.TrimPrefix(ref.Name().String(), "refs/heads/")
		if !repo.BranchRegex.MatchString(name) {
			return nil
		}
		heads = append(heads, model.BranchHead{
			Name:   types.BranchName(name),
			Commit: types.CommitID(ref.Hash().String()),
		})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to enumerate branches", goerr.V("repo", repo.Name))
	}

	sort.Slice(heads, func(i, j int) bool { return heads[i].Name < heads[j].Name })
	return heads, nil
}

func isCorruptionErr(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists) ||
		errors.Is(err, plumbing.ErrObjectNotFound) ||
		errors.Is(err, plumbing.ErrReferenceNotFound)
}
