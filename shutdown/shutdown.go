// Package shutdown turns termination signals into a channel the owning
// event loop can select on.
package shutdown

import (
	"os"
	"os/signal"
)

// Listen subscribes to the platform's termination signals. The returned stop
// func unsubscribes; the channel is never closed.
func Listen() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	return ch, func() { signal.Stop(ch) }
}
