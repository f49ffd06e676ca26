package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/autoissue/autoissue/internal/logging"
)

// RetryConfig configures exponential backoff retry of GitHub API calls.
type RetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig matches what the source's workflow package uses for
// its GitHub activities.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// retryOperation retries operation with exponential backoff, honoring
// GitHub's rate-limit reset time when the response carries one.
func retryOperation(ctx context.Context, logger *logging.Logger, cfg RetryConfig, operation func() (*github.Response, error)) (*github.Response, error) {
	var lastErr error
	var lastResp *github.Response
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		resp, err := operation()
		if err == nil {
			return resp, nil
		}

		lastErr, lastResp = err, resp

		if !isRetryableError(err, resp) {
			return resp, err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		if isRateLimitError(resp) {
			backoff = rateLimitBackoff(resp, cfg.MaxBackoff)
			logger.Warn(ctx, "github rate limit hit, backing off", zap.Duration("backoff", backoff))
		} else {
			logger.Info(ctx, "retrying github operation after transient error",
				zap.Int("attempt", attempt+1), zap.Error(err), zap.Duration("backoff", backoff))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("github operation canceled: %w", ctx.Err())
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
			if backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}
	}

	return lastResp, fmt.Errorf("github operation failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

func isRetryableError(err error, resp *github.Response) bool {
	if err == nil {
		return false
	}
	if resp == nil || resp.Response == nil {
		return true // network error, no status to inspect
	}

	switch resp.Response.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case http.StatusForbidden:
		return resp.Rate.Limit > 0 // secondary rate limit, not a real 403
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusUnprocessableEntity:
		return false
	default:
		return resp.Response.StatusCode >= 500
	}
}

func isRateLimitError(resp *github.Response) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	if resp.Response.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.Response.StatusCode == http.StatusForbidden && resp.Rate.Limit > 0
}

func rateLimitBackoff(resp *github.Response, maxBackoff time.Duration) time.Duration {
	if resp == nil || (resp.Rate.Limit == 0 && resp.Rate.Remaining == 0) {
		return time.Minute
	}
	backoff := time.Until(resp.Rate.Reset.Time) + time.Second
	if backoff < 0 {
		backoff = time.Second
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}
