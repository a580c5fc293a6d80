package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context cancelled on SIGINT or SIGTERM.
func New() (context.Context, func()) {
	return InterruptContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// InterruptContext derives a context that is cancelled when any of the
// given signals arrives or when the returned function is called.
func InterruptContext(ctx context.Context, signals ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()

	return ctx, cancel
}
