package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/assetnote/kitedsl/pkg/log"
)

var (
	ctx            context.Context
	cancel         context.CancelFunc
	ctxInitialized sync.Once
)

// AddInterruptCancellation cancels ctx on the first interrupt and exits the process on the second.
// The handler stops listening once ctx is done
func AddInterruptCancellation(ctx context.Context, cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		for {
			select {
			case <-c:
				log.Info().Msg("Received interrupt signal, cancelling in-flight calls")
				cancel()
			case <-ctx.Done():
				select {
				case <-c:
					log.Info().Msg("Received multiple interrupt signals. Exiting")
					os.Exit(1)
				case <-time.After(shutdownGrace):
				}
				return
			}
		}
	}()
}

// shutdownGrace is how long a second interrupt still forces an exit after cancellation
var shutdownGrace = 10 * time.Second

// InitContext initializes the global context. Context and Cancel call it for you
func InitContext() {
	ctxInitialized.Do(func() {
		ctx, cancel = context.WithCancel(context.Background())
		AddInterruptCancellation(ctx, cancel)
	})
}

// Context returns the global interrupt aware context. It is safe for concurrent use
// and always returns the same context
func Context() context.Context {
	InitContext()
	return ctx
}

// WithTimeout derives a context from the global one that also ends after d. A zero d
// only follows the global context
func WithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(Context())
	}
	return context.WithTimeout(Context(), d)
}

// Cancel cancels the global context. Repeated calls are no-ops
func Cancel() {
	InitContext()
	cancel()
}
