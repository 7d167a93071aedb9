package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// signalContext is canceled on Ctrl-C so the browser is still torn down
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
