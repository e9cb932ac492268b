//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// cancelSignals stop a running conversion. Windows only delivers Ctrl+C.
var cancelSignals = []os.Signal{os.Interrupt}

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, cancelSignals...)
}
