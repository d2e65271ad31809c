package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer fires immediately and records every requested wait
type fakeTimer struct {
	delays []time.Duration
	ch     chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{ch: make(chan time.Time, 1)}
}

func (f *fakeTimer) Start(d time.Duration) {
	f.delays = append(f.delays, d)
	f.ch <- time.Time{}
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time {
	return f.ch
}

func TestDefaultPolicy_Delays(t *testing.T) {
	assert.Equal(t, []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
	}, DefaultPolicy().Delays())
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr error
	}{
		{name: "default", policy: DefaultPolicy()},
		{name: "zero attempts", policy: Policy{MaxAttempts: 0, Multiplier: 2}, wantErr: ErrInvalidMaxAttempts},
		{name: "shrinking multiplier", policy: Policy{MaxAttempts: 3, Multiplier: 0.5}, wantErr: ErrInvalidMultiplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDo(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name          string
		failures      int
		expectErr     bool
		wantAttempts  int
		wantDelays    []time.Duration
		wantNotifyFor []int
	}{
		{
			name:         "success on first attempt",
			failures:     0,
			wantAttempts: 1,
		},
		{
			name:          "success on last attempt",
			failures:      4,
			wantAttempts:  5,
			wantDelays:    []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second},
			wantNotifyFor: []int{1, 2, 3, 4},
		},
		{
			name:          "exhausted",
			failures:      10,
			expectErr:     true,
			wantAttempts:  5,
			wantDelays:    []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second},
			wantNotifyFor: []int{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := newFakeTimer()
			var attempts, notified []int

			err := Do(context.Background(), DefaultPolicy(), timer, func(attempt int) error {
				attempts = append(attempts, attempt)
				if attempt <= tt.failures {
					return errBoom
				}
				return nil
			}, func(attempt int, err error, next time.Duration) {
				notified = append(notified, attempt)
			})

			if tt.expectErr {
				assert.ErrorIs(t, err, errBoom)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, attempts, tt.wantAttempts)
			assert.Equal(t, tt.wantDelays, timer.delays)
			assert.Equal(t, tt.wantNotifyFor, notified)
		})
	}
}

func TestDo_SingleAttemptPolicyNeverWaits(t *testing.T) {
	timer := newFakeTimer()
	calls := 0

	err := Do(context.Background(), Policy{MaxAttempts: 1, InitialDelay: time.Second, Multiplier: 2}, timer,
		func(int) error {
			calls++
			return errors.New("fail")
		}, nil)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, timer.delays)
}

func TestDo_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	err := Do(ctx, DefaultPolicy(), newFakeTimer(), func(int) error {
		calls++
		return errors.New("fail")
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_InvalidPolicy(t *testing.T) {
	err := Do(context.Background(), Policy{}, nil, func(int) error {
		t.Fatal("operation must not run")
		return nil
	}, nil)

	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
