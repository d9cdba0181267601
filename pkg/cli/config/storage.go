package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/infra/mirror"
	"github.com/secmon-lab/refwatch/pkg/repository/memory"
	"github.com/secmon-lab/refwatch/pkg/repository/sqlite"
	"github.com/urfave/cli/v3"
)

// Storage groups the on-disk locations: the sqlite database holding branch
// state and the directory of bare mirror clones. An empty database path
// selects the in-memory store, which forgets everything on restart.
type Storage struct {
	dbPath       string
	mirrorRoot   string
	fetchTimeout time.Duration
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "Path to sqlite database (empty for in-memory store)",
			Category:    "Storage",
			Sources:     cli.EnvVars("REFWATCH_DB_PATH"),
			Destination: &x.dbPath,
		},
		&cli.StringFlag{
			Name:        "mirror-dir",
			Usage:       "Directory for bare mirror clones",
			Category:    "Storage",
			Value:       "./mirrors",
			Sources:     cli.EnvVars("REFWATCH_MIRROR_DIR"),
			Destination: &x.mirrorRoot,
		},
		&cli.DurationFlag{
			Name:        "fetch-timeout",
			Usage:       "Timeout for fetching one remote",
			Category:    "Storage",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("REFWATCH_FETCH_TIMEOUT"),
			Destination: &x.fetchTimeout,
		},
	}
}

func (x *Storage) NewStateRepository() (interfaces.StateRepository, func() error, error) {
	if x.dbPath == "" {
		return memory.New(), func() error { return nil }, nil
	}

	store, err := sqlite.Open(x.dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func (x *Storage) NewMirror() *mirror.Manager {
	return mirror.New(x.mirrorRoot, mirror.WithFetchTimeout(x.fetchTimeout))
}

func (x *Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("dbPath", x.dbPath),
		slog.Any("mirrorRoot", x.mirrorRoot),
		slog.Any("fetchTimeout", x.fetchTimeout),
	)
}
