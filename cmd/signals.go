package cmd

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyInterrupts relays SIGINT and SIGTERM until stop is called.
func notifyInterrupts() (interrupts <-chan os.Signal, stop func()) {
	c := make(chan os.Signal, 1) // signal.Notify does not block, so the channel must be buffered

	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	return c, func() { signal.Stop(c) }
}
