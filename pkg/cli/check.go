package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/refwatch/pkg/cli/config"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
	"github.com/secmon-lab/refwatch/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func checkCommand() *cli.Command {
	var (
		configPath string
		jsonOutput bool

		storage config.Storage
		gh      config.GitHub
	)

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "Run one check cycle and exit",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to watch configuration file",
				Sources:     cli.EnvVars("REFWATCH_CONFIG"),
				Destination: &configPath,
				Required:    true,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the cycle result as JSON to stdout",
				Destination: &jsonOutput,
			},
		}, storage.Flags(), gh.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := buildUseCase(ctx, configPath, &storage, &gh)
			if err != nil {
				return err
			}
			defer safe.CloseFunc(closer)

			result, err := uc.RunCheckCycle(ctx)
			if err != nil {
				return err
			}

			logging.From(ctx).Info("check cycle finished",
				slog.Any("cycle_id", result.ID),
				slog.Int("repositories", result.Repositories),
				slog.Int("notifications", result.Notifications),
				slog.Int("failures", len(result.Failures)),
			)

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(result); err != nil {
					return goerr.Wrap(err, "failed to encode cycle result")
				}
			}

			if len(result.Failures) > 0 {
				return goerr.New("some repositories failed",
					goerr.V("failures", result.Failures),
				)
			}

			return nil
		},
	}
}
