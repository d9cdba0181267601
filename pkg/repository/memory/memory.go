package memory

import (
	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

// New creates a new in-memory state repository. It is used by tests and by
// one-shot runs that do not need durability.
func New() interfaces.StateRepository {
	return &stateRepository{
		repos: make(map[types.RepoName]*repoData),
	}
}
