package gh

import (
	"context"
	"testing"
	"time"
)

func TestDefaultRetryPolicy(t *testing.T) {
	policy := defaultRetryPolicy()

	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", policy.MaxAttempts)
	}
	if policy.BaseDelay != 5*time.Second {
		t.Errorf("BaseDelay = %v, want 5s", policy.BaseDelay)
	}
}

func TestRetryPolicy_DelayFor(t *testing.T) {
	policy := retryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}

	tests := []struct {
		name     string
		class    ErrorClass
		attempt  int
		expected time.Duration
	}{
		{
			name:     "transport first attempt",
			class:    ErrorClassTransport,
			attempt:  1,
			expected: 2 * time.Second,
		},
		{
			name:     "transport backs off linearly",
			class:    ErrorClassTransport,
			attempt:  2,
			expected: 4 * time.Second,
		},
		{
			name:     "transport third attempt",
			class:    ErrorClassTransport,
			attempt:  3,
			expected: 6 * time.Second,
		},
		{
			name:     "graphql uses the fixed base delay",
			class:    ErrorClassGraphQL,
			attempt:  3,
			expected: 2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.DelayFor(tt.class, tt.attempt); got != tt.expected {
				t.Errorf("DelayFor(%s, %d) = %v, want %v", tt.class, tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestRetryPolicy_Exhausted(t *testing.T) {
	policy := retryPolicy{MaxAttempts: 3}

	if policy.Exhausted(2) {
		t.Error("Attempt 2 of 3 should not be exhausted")
	}
	if !policy.Exhausted(3) {
		t.Error("Attempt 3 of 3 should be exhausted")
	}
}

func TestSleep_Completes(t *testing.T) {
	start := time.Now()
	if err := sleep(context.Background(), ErrorClassTransport, 20*time.Millisecond); err != nil {
		t.Fatalf("sleep returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("sleep returned after %v, want >= 20ms", elapsed)
	}
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleep(ctx, ErrorClassTransport, time.Minute); err == nil {
		t.Error("sleep with cancelled context should return an error")
	}
}
