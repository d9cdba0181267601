package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/repository"
)

type repoData struct {
	branches map[types.BranchName]*model.BranchState
	// index maps a commit to the branches on which it has been recorded.
	index map[types.CommitID]map[types.BranchName]struct{}
	prs   map[int]*model.PRStatus
}

type stateRepository struct {
	mu    sync.RWMutex
	repos map[types.RepoName]*repoData
}

func (r *stateRepository) getOrCreate(repo types.RepoName) *repoData {
	data, exists := r.repos[repo]
	if !exists {
		data = &repoData{
			branches: make(map[types.BranchName]*model.BranchState),
			index:    make(map[types.CommitID]map[types.BranchName]struct{}),
			prs:      make(map[int]*model.PRStatus),
		}
		r.repos[repo] = data
	}
	return data
}

func (r *stateRepository) GetBranchState(ctx context.Context, repo types.RepoName, branch types.BranchName) (*model.BranchState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.repos[repo]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "repository has no state",
			goerr.V("repo", repo),
		)
	}

	state, exists := data.branches[branch]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "branch has no state",
			goerr.V("repo", repo),
			goerr.V("branch", branch),
		)
	}

	return copyBranchState(state), nil
}

func (r *stateRepository) ListBranchStates(ctx context.Context, repo types.RepoName) ([]*model.BranchState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.repos[repo]
	if !exists {
		return nil, nil
	}

	var states []*model.BranchState
	for _, s := range data.branches {
		states = append(states, copyBranchState(s))
	}
	return states, nil
}

func (r *stateRepository) HasCommit(ctx context.Context, repo types.RepoName, branch types.BranchName, commit types.CommitID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.repos[repo]
	if !exists {
		return false, nil
	}
	branches, exists := data.index[commit]
	if !exists {
		return false, nil
	}
	_, ok := branches[branch]
	return ok, nil
}

func (r *stateRepository) BranchesOfCommit(ctx context.Context, repo types.RepoName, commit types.CommitID) ([]types.BranchName, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.repos[repo]
	if !exists {
		return nil, nil
	}

	var branches []types.BranchName
	for b := range data.index[commit] {
		branches = append(branches, b)
	}
	return branches, nil
}

func (r *stateRepository) CommitCycle(ctx context.Context, repo types.RepoName, commit *model.CycleCommit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.getOrCreate(repo)

	for _, branch := range commit.IndexRemovals {
		for c, branches := range data.index {
			delete(branches, branch)
			if len(branches) == 0 {
				delete(data.index, c)
			}
		}
	}

	for _, add := range commit.IndexAdds {
		branches, exists := data.index[add.Commit]
		if !exists {
			branches = make(map[types.BranchName]struct{})
			data.index[add.Commit] = branches
		}
		branches[add.Branch] = struct{}{}
	}

	for _, update := range commit.BranchUpdates {
		data.branches[update.Branch] = copyBranchState(&update)
	}

	for _, pr := range commit.PRCache {
		dup := pr
		data.prs[pr.Number] = &dup
	}

	return nil
}

func (r *stateRepository) GetPRStatus(ctx context.Context, repo types.RepoName, number int) (*model.PRStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.repos[repo]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "repository has no state",
			goerr.V("repo", repo),
		)
	}
	pr, exists := data.prs[number]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "pull request is not cached",
			goerr.V("repo", repo),
			goerr.V("number", number),
		)
	}
	dup := *pr
	return &dup, nil
}

func (r *stateRepository) PutPRStatus(ctx context.Context, repo types.RepoName, pr *model.PRStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.getOrCreate(repo)
	dup := *pr
	data.prs[pr.Number] = &dup
	return nil
}

func copyBranchState(s *model.BranchState) *model.BranchState {
	dup := *s
	return &dup
}
