package config

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub carries the optional credentials for the PR status lookup. Without
// any of them the client works anonymously, which is enough for public
// repositories within the unauthenticated rate limit.
type GitHub struct {
	token      types.GitHubToken `masq:"secret"`
	appID      types.GitHubAppID
	installID  types.GitHubAppInstallID
	privateKey types.GitHubAppPrivateKey `masq:"secret"`
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("REFWATCH_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.appID),
			Sources:     cli.EnvVars("REFWATCH_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-install-id",
			Usage:       "GitHub App installation ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.installID),
			Sources:     cli.EnvVars("REFWATCH_GITHUB_APP_INSTALL_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Category:    "GitHub",
			Destination: (*string)(&x.privateKey),
			Sources:     cli.EnvVars("REFWATCH_GITHUB_APP_PRIVATE_KEY"),
		},
	}
}

func (x *GitHub) New(ctx context.Context) (*github.Client, error) {
	switch {
	case x.appID != 0:
		return github.NewWithApp(x.appID, x.installID, x.privateKey)
	case x.token != "":
		return github.NewWithToken(ctx, x.token)
	default:
		return github.New(), nil
	}
}

func (x GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.Int64("appID", int64(x.appID)),
		slog.Int64("installID", int64(x.installID)),
		slog.Int("privateKey.len", len(x.privateKey)),
	)
}
