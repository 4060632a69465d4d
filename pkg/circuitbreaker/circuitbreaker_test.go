package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newBreaker(threshold int, coolDown time.Duration) (*CircuitBreaker, *time.Time) {
	cb := New(Settings{Name: "test", FailureThreshold: threshold, CoolDown: coolDown})
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }
	return cb, &now
}

func TestExecutePassesThroughWhileClosed(t *testing.T) {
	cb, _ := newBreaker(3, time.Minute)

	calls := 0
	err := cb.Execute(func() error { calls++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	err = cb.Execute(func() error { return errBoom })
	assert.ErrorIs(t, err, errBoom)
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}

	calls := 0
	err := cb.Execute(func() error { calls++; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.Zero(t, calls, "open breaker must not invoke the call")
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb, _ := newBreaker(3, time.Minute)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })
	require.NoError(t, cb.Execute(func() error { return nil }))

	// The earlier failures no longer count toward the threshold.
	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })
	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
}

func TestTrialCallAfterCoolDown(t *testing.T) {
	cb, now := newBreaker(1, time.Minute)

	_ = cb.Execute(func() error { return errBoom })
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)

	// After the cool-down a single call is let through and closes the
	// breaker on success.
	*now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
}

func TestTrialCallFailureReopens(t *testing.T) {
	cb, now := newBreaker(1, time.Minute)

	_ = cb.Execute(func() error { return errBoom })

	*now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)

	// The failed trial re-opened the breaker.
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)
}
