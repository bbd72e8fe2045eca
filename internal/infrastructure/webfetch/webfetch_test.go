package webfetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVisibleText(t *testing.T) {
	page := `<html><head><style>body{color:red}</style>
<script>console.log("hidden")</script></head>
<body><h1>Syllabus</h1><p>Week one covers   variables.</p></body></html>`

	got := extractVisibleText([]byte(page))
	assert.Contains(t, got, "Syllabus")
	assert.Contains(t, got, "Week one covers variables.")
	assert.NotContains(t, got, "hidden")
	assert.NotContains(t, got, "color:red")
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), DefaultRetryConfig(), "test", func() (*int, error) {
		calls++
		return nil, errors.New("404 not found")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRetriesAndSucceeds(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, BackoffFactor: 1.5}
	calls := 0
	v := 42
	got, err := withRetry(context.Background(), cfg, "test", func() (*int, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("timeout talking to host")
		}
		return &v, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, *got)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, BackoffFactor: 1.5}
	calls := 0
	_, err := withRetry(context.Background(), cfg, "test", func() (*int, error) {
		calls++
		return nil, errors.New("503 service unavailable")
	})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})
	boom := errors.New("boom")

	require.Error(t, cb.Execute("op", func() error { return boom }))
	require.Error(t, cb.Execute("op", func() error { return boom }))

	err := cb.Execute("op", func() error { return nil })
	assert.ErrorContains(t, err, "circuit breaker is open")

	time.Sleep(15 * time.Millisecond)
	assert.NoError(t, cb.Execute("op", func() error { return nil }))
	assert.NoError(t, cb.Execute("op", func() error { return nil }))
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	boom := errors.New("boom")
	require.Error(t, cb.Execute("op", func() error { return boom }))
	assert.NoError(t, cb.Execute("op", func() error { return nil }))
}
