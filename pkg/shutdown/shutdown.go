package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
			return
		case <-ch:
			cancel()
		}
	}()

	return ctx, cancel
}

// Graceful waits for ctx to end, then runs stop with a fresh deadline. If
// stop does not finish in time, force is called.
func Graceful(ctx context.Context, timeout time.Duration, stop func(context.Context) error, force func()) error {
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- stop(stopCtx) }()

	select {
	case err := <-done:
		return err
	case <-stopCtx.Done():
		if force != nil {
			force()
		}
		return stopCtx.Err()
	}
}
