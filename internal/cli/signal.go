package cli

import (
	"context"
	"os"
	"os/signal"
)

// signalContext returns a context cancelled on the first interrupt, so a
// followed log stream or a long rebuild stops cleanly on Ctrl-C. The child
// process receives the same SIGINT from the terminal.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
