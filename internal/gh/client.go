// Package gh is the GitHub hosting boundary: listing an owner's
// repositories, viewing a single repository, and archiving one. Nothing
// outside this package talks to the API.
package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/google/go-github/v82/github"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const githubHost = "github.com"

// TokenSource indicates where the token was found.
type TokenSource string

const (
	TokenSourceFlag      TokenSource = "flag"
	TokenSourceEnvGitHub TokenSource = "GITHUB_TOKEN"
	TokenSourceEnvGH     TokenSource = "GH_TOKEN"
	TokenSourceGHCLI     TokenSource = "gh-cli"
)

// ResolveToken finds a GitHub token. Priority order:
//  1. flagToken (explicit --token flag)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI auth (config file / keyring)
func ResolveToken(flagToken string) (string, TokenSource, error) {
	if flagToken != "" {
		return flagToken, TokenSourceFlag, nil
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, TokenSourceEnvGitHub, nil
	}

	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, TokenSourceEnvGH, nil
	}

	if token, _ := auth.TokenForHost(githubHost); token != "" {
		return token, TokenSourceGHCLI, nil
	}

	return "", "", errors.New(`GitHub token required

Provide a token via one of:
  * gh auth login             (auto-detected from gh CLI)
  * GITHUB_TOKEN env var
  * --token flag

Create a token at: https://github.com/settings/tokens`)
}

// RetryConfig controls backoff for rate-limited API calls.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     2 * time.Minute,
	}
}

// Client wraps the GitHub API client with rate-limit-aware retries.
type Client struct {
	api   *github.Client
	retry RetryConfig
	log   zerolog.Logger
}

// NewClient creates an authenticated client.
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		api:   github.NewClient(tc),
		retry: DefaultRetryConfig(),
		log:   log.Logger,
	}
}

// SetBaseURL points the client at a different API endpoint. Used by tests.
func (c *Client) SetBaseURL(rawURL string) error {
	u, err := c.api.BaseURL.Parse(rawURL)
	if err != nil {
		return err
	}

	c.api.BaseURL = u

	return nil
}

// withRetry runs fn, retrying on primary and secondary rate limits with
// exponential backoff. Any other error is returned immediately.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	backoff := c.retry.InitialBackoff

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || attempt >= c.retry.MaxRetries {
			return err
		}

		wait := backoff

		var rateErr *github.RateLimitError
		var abuseErr *github.AbuseRateLimitError

		switch {
		case errors.As(err, &rateErr):
			if until := time.Until(rateErr.Rate.Reset.Time); until > wait {
				wait = until
			}
		case errors.As(err, &abuseErr):
			if abuseErr.RetryAfter != nil && *abuseErr.RetryAfter > wait {
				wait = *abuseErr.RetryAfter
			}
		default:
			return err
		}

		if wait > c.retry.MaxBackoff {
			wait = c.retry.MaxBackoff
		}

		c.log.Warn().
			Str("op", op).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Msg("rate limited, backing off")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		backoff *= 2
	}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var respErr *github.ErrorResponse

	return errors.As(err, &respErr) &&
		respErr.Response != nil &&
		respErr.Response.StatusCode == http.StatusNotFound
}

func apiError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
