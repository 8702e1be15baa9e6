package doctor

import (
	"fmt"
	"os"

	"dictate/shutdown"
)

// watchInterrupt aborts the diagnostics on the first termination signal.
// The returned func detaches the watcher.
func watchInterrupt() func() {
	sigs, stop := shutdown.Listen()
	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			resetTerminal()
			fmt.Fprintln(os.Stderr, "\nInterrupted")
			os.Exit(1)
		case <-done:
		}
	}()
	return func() {
		stop()
		close(done)
	}
}
