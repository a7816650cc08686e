package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("net::ERR_CONNECTION_RESET")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	base := errors.New("boom")
	calls := 0
	err := WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		return base
	})
	if !errors.Is(err, base) {
		t.Errorf("Expected wrapped base error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_Permanent(t *testing.T) {
	base := errors.New("invalid URL")
	calls := 0
	err := WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		return Permanent(base)
	})
	if err != base {
		t.Errorf("Expected unwrapped permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_RetryablePredicate(t *testing.T) {
	cfg := fastConfig()
	cfg.Retryable = func(err error) bool { return err.Error() == "transient" }

	calls := 0
	_ = WithRetry(context.Background(), cfg, func() error {
		calls++
		return errors.New("fatal")
	})
	if calls != 1 {
		t.Errorf("Expected predicate to stop retries, got %d calls", calls)
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := Config{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, Multiplier: 2}
	if got := calculateBackoff(0, cfg); got != time.Second {
		t.Errorf("attempt 0: got %v", got)
	}
	if got := calculateBackoff(1, cfg); got != 2*time.Second {
		t.Errorf("attempt 1: got %v", got)
	}
	if got := calculateBackoff(5, cfg); got != 3*time.Second {
		t.Errorf("attempt 5: expected cap, got %v", got)
	}
}
