package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSimpleRetry_Success(t *testing.T) {
	retry := NewSimpleRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary error")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestSimpleRetry_MaxRetriesExceeded(t *testing.T) {
	retry := NewSimpleRetry(2, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return errors.New("persistent error")
	})

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if attempts != 3 { // 1 initial + 2 retries
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestSimpleRetry_NonRetryableStatus(t *testing.T) {
	retry := NewSimpleRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return fmt.Errorf("keywordstool: %w", &StatusError{Service: "searchad", StatusCode: 403, Body: "denied"})
	})

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestSimpleRetry_RetriesRateLimit(t *testing.T) {
	retry := NewSimpleRetry(2, time.Millisecond)

	attempts := 0
	_ = retry.Execute(context.Background(), func() error {
		attempts++
		return &StatusError{Service: "datalab", StatusCode: 429}
	})

	if attempts != 3 {
		t.Errorf("Expected 3 attempts for 429, got %d", attempts)
	}
}

func TestSimpleRetry_ContextCancellation(t *testing.T) {
	retry := NewSimpleRetry(3, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := retry.Execute(ctx, func() error {
		return errors.New("some error")
	})

	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSimpleRetry_DelayIsCapped(t *testing.T) {
	retry := NewSimpleRetry(10, time.Second)

	if d := retry.Delay(0); d != time.Second {
		t.Errorf("Expected 1s first delay, got %s", d)
	}
	if d := retry.Delay(2); d != 4*time.Second {
		t.Errorf("Expected 4s third delay, got %s", d)
	}
	if d := retry.Delay(9); d != 30*time.Second {
		t.Errorf("Expected delay capped at 30s, got %s", d)
	}
}

func TestSimpleRetryPermanent(t *testing.T) {
	sentinel := errors.New("decode failed")
	r := NewSimpleRetry(3, time.Millisecond)

	attempts := 0
	err := r.Execute(context.Background(), func() error {
		attempts++
		return Permanent(sentinel)
	})

	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped sentinel, got %v", err)
	}
	if Permanent(nil) != nil {
		t.Error("Expected Permanent(nil) to be nil")
	}
}
