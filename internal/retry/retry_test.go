package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer fires immediately and records the requested waits, so the
// full backoff schedule runs without sleeping.
type fakeTimer struct {
	ch    chan time.Time
	waits []time.Duration
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{ch: make(chan time.Time, 1)}
}

func (t *fakeTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.ch <- time.Now()
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time {
	return t.ch
}

var errTransient = errors.New("transient")

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	timer := newFakeTimer()
	attempts := 0

	err := DoWithTimer(context.Background(), 3, time.Second, func(error) bool { return true }, func() error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	}, timer)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.waits)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	timer := newFakeTimer()
	permanent := errors.New("bad request")
	attempts := 0

	err := DoWithTimer(context.Background(), 3, time.Second, func(err error) bool { return false }, func() error {
		attempts++
		return permanent
	}, timer)

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, timer.waits)
}

func TestDoExhaustsBudget(t *testing.T) {
	timer := newFakeTimer()
	attempts := 0

	err := DoWithTimer(context.Background(), 3, time.Second, func(error) bool { return true }, func() error {
		attempts++
		return errTransient
	}, timer)

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, attempts)
}

func TestDoFirstAttemptSuccess(t *testing.T) {
	timer := newFakeTimer()

	err := DoWithTimer(context.Background(), 3, time.Second, func(error) bool { return true }, func() error {
		return nil
	}, timer)

	require.NoError(t, err)
	assert.Empty(t, timer.waits)
}
