package signals

import (
	"os"
	"os/signal"
	"syscall"
)

// OnSignal executes the given action in a new goroutine when the process receives an interruption
// (SIGINT) or termination (SIGTERM) signal. The action runs at most once.
func OnSignal(action func(sig os.Signal)) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		signal.Stop(sigChan)
		action(sig)
	}()
}
