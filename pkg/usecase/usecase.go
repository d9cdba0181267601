package usecase

import (
	"sync"

	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/infra"
)

// RepoSource supplies the current repository configuration. The coordinator
// snapshots it at cycle start so concurrent configuration edits take effect
// on the next cycle only.
type RepoSource func() []*model.Repository

type UseCase struct {
	clients *infra.Clients
	source  RepoSource

	// cycleMu makes the check cycle single-flight. A request arriving while
	// the lock is held is dropped, not queued.
	cycleMu sync.Mutex
}

var _ interfaces.UseCase = (*UseCase)(nil)

func New(clients *infra.Clients, source RepoSource) *UseCase {
	return &UseCase{
		clients: clients,
		source:  source,
	}
}

// Repositories returns a snapshot of the configured repositories.
func (x *UseCase) Repositories() []*model.Repository {
	repos := x.source()
	snapshot := make([]*model.Repository, 0, len(repos))
	for _, repo := range repos {
		snapshot = append(snapshot, repo.Clone())
	}
	return snapshot
}
