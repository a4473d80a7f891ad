package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout_Default(t *testing.T) {
	if got := NewTimeout(TimeoutConfig{}).Config().Timeout; got != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", got)
	}
}

func TestTimeout_Completes(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})
	v, err := callWithTimeout(context.Background(), to, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || v != 7 {
		t.Errorf("callWithTimeout() = %d, %v; want 7, nil", v, err)
	}
}

func TestTimeout_Exceeded(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	err := ExecuteWithTimeout(context.Background(), 10*time.Millisecond, func(context.Context) error {
		<-block
		return nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("ExecuteWithTimeout() error = %v, want ErrTimeout", err)
	}
}

func TestTimeout_PropagatesError(t *testing.T) {
	errProbe := errors.New("refused")
	err := ExecuteWithTimeout(context.Background(), time.Second, func(context.Context) error {
		return errProbe
	})
	if !errors.Is(err, errProbe) {
		t.Errorf("ExecuteWithTimeout() error = %v, want %v", err, errProbe)
	}
}

func TestTimeout_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteWithTimeout(ctx, time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ExecuteWithTimeout() error = %v, want context.Canceled", err)
	}
}
