//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// cancelSignals stop a running conversion; httrack and the render engine
// are killed through the context.
var cancelSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, cancelSignals...)
}
