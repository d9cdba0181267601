package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

type UseCase interface {
	RunCheckCycle(ctx context.Context) (*model.CycleResult, error)
	LookupPullRequest(ctx context.Context, repo types.RepoName, number int) (*model.PRStatus, error)
	Repositories() []*model.Repository
}
