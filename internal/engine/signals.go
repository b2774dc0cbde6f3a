package engine

import (
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/tomb.v2"
)

// startSignalWatcher translates process-directed SIGINT/SIGTERM into Signal
// events. No other signal is intercepted here — SIGCHLD is left to the
// reaper's own signal.Notify registration. Grounded on cmd/pebble/cmd_run.go's
// signal.Notify(sigs, SIGINT, SIGTERM) call.
func startSignalWatcher(t *tomb.Tomb, bus chan<- Event) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	t.Go(func() error {
		for {
			select {
			case sig := <-sigs:
				if !sendEvent(t, bus, Signal{Sig: sig}) {
					signal.Stop(sigs)
					return nil
				}
			case <-t.Dying():
				signal.Stop(sigs)
				return nil
			}
		}
	})
}
