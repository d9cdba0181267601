package cli

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/refwatch/pkg/configstore"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func validateCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a watch configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to watch configuration file",
				Sources:     cli.EnvVars("REFWATCH_CONFIG"),
				Destination: &configPath,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := configstore.Load(configPath)
			if err != nil {
				return err
			}

			repos := store.Repositories()
			for _, repo := range repos {
				logging.From(ctx).Info("repository",
					slog.Any("name", repo.Name),
					slog.String("remote", repo.Remote),
					slog.Int("conditions", len(repo.Conditions)),
				)
			}
			logging.From(ctx).Info("configuration is valid",
				slog.Int("repositories", len(repos)),
				slog.Int("chats", len(store.Endpoints())),
			)

			return nil
		},
	}
}
