package github

import (
	"context"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/utils/logging"
	"golang.org/x/oauth2"
)

// Client resolves pull request status via the GitHub REST API. It supports
// anonymous access, a personal access token, or GitHub App credentials.
type Client struct {
	gh *github.Client
}

var _ interfaces.GitHubClient = (*Client)(nil)

// New creates an unauthenticated client, enough for public repositories.
func New() *Client {
	return &Client{gh: github.NewClient(http.DefaultClient)}
}

// NewWithToken creates a client authenticated with a personal access token.
func NewWithToken(ctx context.Context, token types.GitHubToken) (*Client, error) {
	if token == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "token is empty")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(token)})
	return &Client{gh: github.NewClient(oauth2.NewClient(ctx, ts))}, nil
}

// NewWithApp creates a client authenticated as a GitHub App installation.
func NewWithApp(appID types.GitHubAppID, installID types.GitHubAppInstallID, pem types.GitHubAppPrivateKey) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "appID is empty")
	}
	if installID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "installID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "pem is empty")
	}

	itr, err := ghinstallation.New(http.DefaultTransport, int64(appID), int64(installID), []byte(pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &Client{gh: github.NewClient(&http.Client{Transport: itr})}, nil
}

// GetPullRequest fetches the current status of a pull request.
func (x *Client) GetPullRequest(ctx context.Context, info model.GitHubInfo, number int) (*model.PRStatus, error) {
	logging.From(ctx).Debug("sending GetPullRequest request",
		"github", info.String(),
		"number", number,
	)

	pr, resp, err := x.gh.PullRequests.Get(ctx, info.Owner, info.Repo, number)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get pull request",
			goerr.V("github", info.String()),
			goerr.V("number", number),
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.Wrap(types.ErrInvalidGitHubData, "unexpected status code",
			goerr.V("github", info.String()),
			goerr.V("number", number),
			goerr.V("status", resp.StatusCode),
		)
	}

	status := &model.PRStatus{
		Number:    number,
		UpdatedAt: logging.CtxTime(ctx),
	}
	switch {
	case pr.GetMerged():
		status.State = types.PRStateMerged
		status.MergeCommit = types.CommitID(pr.GetMergeCommitSHA())
	case pr.GetState() == "closed":
		status.State = types.PRStateClosed
	default:
		status.State = types.PRStateOpen
	}

	return status, nil
}
