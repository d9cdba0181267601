package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/refwatch/pkg/cli/config"
	"github.com/secmon-lab/refwatch/pkg/controller/server"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/usecase"
	"github.com/secmon-lab/refwatch/pkg/utils/errutil"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
	"github.com/secmon-lab/refwatch/pkg/utils/safe"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr       string
		configPath string
		interval   time.Duration

		storage config.Storage
		gh      config.GitHub
		sentry  config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("REFWATCH_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to watch configuration file",
			Sources:     cli.EnvVars("REFWATCH_CONFIG"),
			Destination: &configPath,
			Required:    true,
		},
		&cli.DurationFlag{
			Name:        "interval",
			Usage:       "Interval between check cycles (0 disables the scheduler)",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("REFWATCH_INTERVAL"),
			Destination: &interval,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			storage.Flags(),
			gh.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("Config", configPath),
				slog.Any("Interval", interval),
				slog.Any("Storage", storage),
				slog.Any("GitHub", gh),
				slog.Any("Sentry", sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			uc, closer, err := buildUseCase(ctx, configPath, &storage, &gh)
			if err != nil {
				return err
			}
			defer safe.CloseFunc(closer)

			s := server.New(uc)

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      5 * time.Minute,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			schedulerCtx, stopScheduler := context.WithCancel(ctx)
			defer stopScheduler()
			if interval > 0 {
				go runScheduler(schedulerCtx, uc, interval)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)
				stopScheduler()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}

// runScheduler triggers a check cycle every interval. A cycle still running
// when the ticker fires is skipped, not queued.
func runScheduler(ctx context.Context, uc *usecase.UseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			result, err := uc.RunCheckCycle(ctx)
			if err != nil {
				if errors.Is(err, types.ErrCycleActive) {
					logging.From(ctx).Warn("previous check cycle still running, skipping tick")
					continue
				}
				errutil.HandleError(ctx, "scheduled check cycle failed", err)
				continue
			}

			logging.From(ctx).Info("check cycle finished",
				slog.Any("cycle_id", result.ID),
				slog.Int("repositories", result.Repositories),
				slog.Int("notifications", result.Notifications),
				slog.Int("failures", len(result.Failures)),
			)
		}
	}
}
