package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/repository"
	"github.com/secmon-lab/refwatch/pkg/utils/safe"
)

var _ interfaces.StateRepository = (*Store)(nil)

func (s *Store) GetBranchState(ctx context.Context, repo types.RepoName, branch types.BranchName) (*model.BranchState, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT commit_id, checked_at FROM branches WHERE repo = ? AND branch = ?",
		string(repo), string(branch),
	)

	state := model.BranchState{Branch: branch}
	if err := row.Scan(&state.Commit, &state.CheckedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(repository.ErrNotFound, "branch has no state",
				goerr.V("repo", repo),
				goerr.V("branch", branch),
			)
		}
		return nil, goerr.Wrap(repository.ErrCorruption, err.Error(),
			goerr.V("repo", repo),
			goerr.V("branch", branch),
		)
	}

	return &state, nil
}

func (s *Store) ListBranchStates(ctx context.Context, repo types.RepoName) ([]*model.BranchState, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT branch, commit_id, checked_at FROM branches WHERE repo = ?",
		string(repo),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list branch states", goerr.V("repo", repo))
	}
	defer safe.Close(rows)

	var states []*model.BranchState
	for rows.Next() {
		var state model.BranchState
		if err := rows.Scan(&state.Branch, &state.Commit, &state.CheckedAt); err != nil {
			return nil, goerr.Wrap(repository.ErrCorruption, err.Error(), goerr.V("repo", repo))
		}
		states = append(states, &state)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(repository.ErrCorruption, err.Error(), goerr.V("repo", repo))
	}

	return states, nil
}

func (s *Store) HasCommit(ctx context.Context, repo types.RepoName, branch types.BranchName, commit types.CommitID) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM branch_commits WHERE repo = ? AND branch = ? AND commit_id = ?",
		string(repo), string(branch), string(commit),
	)

	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, goerr.Wrap(repository.ErrCorruption, err.Error(),
			goerr.V("repo", repo),
			goerr.V("branch", branch),
		)
	}
	return true, nil
}

func (s *Store) BranchesOfCommit(ctx context.Context, repo types.RepoName, commit types.CommitID) ([]types.BranchName, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT branch FROM branch_commits WHERE repo = ? AND commit_id = ?",
		string(repo), string(commit),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query commit index",
			goerr.V("repo", repo),
			goerr.V("commit", commit),
		)
	}
	defer safe.Close(rows)

	var branches []types.BranchName
	for rows.Next() {
		var b types.BranchName
		if err := rows.Scan(&b); err != nil {
			return nil, goerr.Wrap(repository.ErrCorruption, err.Error(), goerr.V("repo", repo))
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(repository.ErrCorruption, err.Error(), goerr.V("repo", repo))
	}

	return branches, nil
}

func (s *Store) CommitCycle(ctx context.Context, repo types.RepoName, commit *model.CycleCommit) error {
	if commit.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction", goerr.V("repo", repo))
	}
	defer safe.Rollback(tx)

	for _, branch := range commit.IndexRemovals {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM branch_commits WHERE repo = ? AND branch = ?",
			string(repo), string(branch),
		); err != nil {
			return goerr.Wrap(err, "failed to clear commit index",
				goerr.V("repo", repo),
				goerr.V("branch", branch),
			)
		}
	}

	for _, add := range commit.IndexAdds {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO branch_commits (repo, branch, commit_id) VALUES (?, ?, ?)",
			string(repo), string(add.Branch), string(add.Commit),
		); err != nil {
			return goerr.Wrap(err, "failed to extend commit index",
				goerr.V("repo", repo),
				goerr.V("branch", add.Branch),
			)
		}
	}

	for _, update := range commit.BranchUpdates {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO branches (repo, branch, commit_id, checked_at) VALUES (?, ?, ?, ?)",
			string(repo), string(update.Branch), string(update.Commit), update.CheckedAt,
		); err != nil {
			return goerr.Wrap(err, "failed to update branch state",
				goerr.V("repo", repo),
				goerr.V("branch", update.Branch),
			)
		}
	}

	for _, pr := range commit.PRCache {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO pr_cache (repo, number, state, merge_commit, updated_at) VALUES (?, ?, ?, ?, ?)",
			string(repo), pr.Number, string(pr.State), string(pr.MergeCommit), pr.UpdatedAt,
		); err != nil {
			return goerr.Wrap(err, "failed to update PR cache",
				goerr.V("repo", repo),
				goerr.V("number", pr.Number),
			)
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit cycle updates", goerr.V("repo", repo))
	}

	return nil
}

func (s *Store) GetPRStatus(ctx context.Context, repo types.RepoName, number int) (*model.PRStatus, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT state, merge_commit, updated_at FROM pr_cache WHERE repo = ? AND number = ?",
		string(repo), number,
	)

	pr := model.PRStatus{Number: number}
	if err := row.Scan(&pr.State, &pr.MergeCommit, &pr.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(repository.ErrNotFound, "pull request is not cached",
				goerr.V("repo", repo),
				goerr.V("number", number),
			)
		}
		return nil, goerr.Wrap(repository.ErrCorruption, err.Error(), goerr.V("repo", repo))
	}

	return &pr, nil
}

func (s *Store) PutPRStatus(ctx context.Context, repo types.RepoName, pr *model.PRStatus) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO pr_cache (repo, number, state, merge_commit, updated_at) VALUES (?, ?, ?, ?, ?)",
		string(repo), pr.Number, string(pr.State), string(pr.MergeCommit), pr.UpdatedAt,
	); err != nil {
		return goerr.Wrap(err, "failed to store PR status",
			goerr.V("repo", repo),
			goerr.V("number", pr.Number),
		)
	}
	return nil
}
