package sigctx

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext returns a context canceled on the first termination
// signal. Binaries use it as the root context for graceful shutdown.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
