package ghclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoissue/autoissue/internal/logging"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    5 * time.Millisecond,
		MaxBackoff:        20 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryOperation_SucceedsFirstTry(t *testing.T) {
	callCount := 0
	operation := func() (*github.Response, error) {
		callCount++
		return &github.Response{Response: &http.Response{StatusCode: 200}}, nil
	}

	resp, err := retryOperation(context.Background(), logging.Nop(), fastRetryConfig(), operation)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Response.StatusCode)
	assert.Equal(t, 1, callCount)
}

func TestRetryOperation_RecoversAfterTransientError(t *testing.T) {
	callCount := 0
	operation := func() (*github.Response, error) {
		callCount++
		if callCount < 3 {
			return &github.Response{Response: &http.Response{StatusCode: 503}}, errors.New("service unavailable")
		}
		return &github.Response{Response: &http.Response{StatusCode: 200}}, nil
	}

	resp, err := retryOperation(context.Background(), logging.Nop(), fastRetryConfig(), operation)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Response.StatusCode)
	assert.Equal(t, 3, callCount)
}

func TestRetryOperation_NonRetryableFailsImmediately(t *testing.T) {
	callCount := 0
	operation := func() (*github.Response, error) {
		callCount++
		return &github.Response{Response: &http.Response{StatusCode: 404}}, errors.New("not found")
	}

	_, err := retryOperation(context.Background(), logging.Nop(), fastRetryConfig(), operation)
	assert.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestRetryOperation_ExhaustsRetriesThenFails(t *testing.T) {
	callCount := 0
	operation := func() (*github.Response, error) {
		callCount++
		return &github.Response{Response: &http.Response{StatusCode: 500}}, errors.New("server error")
	}

	cfg := fastRetryConfig()
	_, err := retryOperation(context.Background(), logging.Nop(), cfg, operation)
	assert.Error(t, err)
	assert.Equal(t, cfg.MaxRetries+1, callCount)
}

func TestIsRetryableError(t *testing.T) {
	respWith := func(code int) *github.Response {
		return &github.Response{Response: &http.Response{StatusCode: code}}
	}

	assert.True(t, isRetryableError(errors.New("x"), respWith(http.StatusTooManyRequests)))
	assert.True(t, isRetryableError(errors.New("x"), respWith(http.StatusServiceUnavailable)))
	assert.False(t, isRetryableError(errors.New("x"), respWith(http.StatusNotFound)))
	assert.False(t, isRetryableError(errors.New("x"), respWith(http.StatusUnprocessableEntity)))
	assert.False(t, isRetryableError(nil, respWith(500)))
}
