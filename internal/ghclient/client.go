package ghclient

import (
	"context"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/autoissue/autoissue/internal/config"
	"github.com/autoissue/autoissue/internal/logging"
)

// NewClient builds an authenticated go-github client from token, the same
// oauth2.StaticTokenSource pattern the source's workflow package uses.
func NewClient(ctx context.Context, token config.Secret) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.Value()})
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc)
}

// Client is the issue source and PR host for one owner/repo, backed by the
// GitHub REST API with retry-wrapped calls.
type Client struct {
	gh       *github.Client
	owner    string
	repo     string
	retryCfg RetryConfig
	logger   *logging.Logger
}

// New returns a Client scoped to owner/repo.
func New(gh *github.Client, owner, repo string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{gh: gh, owner: owner, repo: repo, retryCfg: DefaultRetryConfig(), logger: logger}
}
