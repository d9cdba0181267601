package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/cli/config"
	"github.com/secmon-lab/refwatch/pkg/configstore"
	"github.com/secmon-lab/refwatch/pkg/infra"
	"github.com/secmon-lab/refwatch/pkg/infra/notify"
	"github.com/secmon-lab/refwatch/pkg/usecase"
)

// buildUseCase assembles the collaborators shared by the serve and check
// commands. The returned closer releases the state store.
func buildUseCase(ctx context.Context, configPath string, storage *config.Storage, gh *config.GitHub) (*usecase.UseCase, func() error, error) {
	if configPath == "" {
		return nil, nil, goerr.New("config file is required")
	}

	store, err := configstore.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	stateRepo, closer, err := storage.NewStateRepository()
	if err != nil {
		return nil, nil, err
	}

	ghClient, err := gh.New(ctx)
	if err != nil {
		if closeErr := closer(); closeErr != nil {
			err = goerr.Wrap(err, "also failed to close state store", goerr.V("close_error", closeErr))
		}
		return nil, nil, err
	}

	clients := infra.New(
		infra.WithMirror(storage.NewMirror()),
		infra.WithStateRepo(stateRepo),
		infra.WithGitHub(ghClient),
		infra.WithNotifier(notify.NewWebhook(store.Endpoints())),
		infra.WithSubscriptions(store),
	)

	return usecase.New(clients, store.Repositories), closer, nil
}
