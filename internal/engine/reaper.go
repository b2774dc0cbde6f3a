package engine

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"gopkg.in/tomb.v2"
)

// startReaper is the sole source of Exited/Signaled events: the spawner
// never calls wait on its own child, because doing so would race this loop
// on SIGCHLD and drop exit statuses on the floor.
//
// Grounded on internals/reaper/reaper.go: the process is marked a child
// subreaper (PR_SET_CHILD_SUBREAPER) so it adopts grandchildren whose
// direct parent has already died, then a SIGCHLD-notify loop drains every
// reapable child with a non-blocking Wait4 until none remain. A single
// blocking waitpid(-1,...) call can't be woken up to observe the tomb
// dying, so every Go supervisor in the reference pack uses this
// signal-driven encoding of "block until any child terminates" instead.
func startReaper(t *tomb.Tomb, bus chan<- Event) error {
	if err := setChildSubreaper(); err != nil {
		return err
	}

	sigChld := make(chan os.Signal, 1)
	signal.Notify(sigChld, unix.SIGCHLD)

	t.Go(func() error {
		for {
			select {
			case <-sigChld:
				reapAll(t, bus)
			case <-t.Dying():
				signal.Stop(sigChld)
				return nil
			}
		}
	})
	return nil
}

// setChildSubreaper marks this process as a subreaper (Linux 3.4+) so that
// orphaned grandchildren are reparented to it instead of to PID 1, letting
// it reap them like any other child (the reactor's handleTermination logs
// them as foreign pids).
func setChildSubreaper() error {
	err := unix.Prctl(unix.PR_SET_CHILD_SUBREAPER, 1, 0, 0, 0)
	if err == unix.EINVAL {
		// Subreaping unavailable on this kernel; still perfectly able to
		// reap our own direct children via Wait4(-1, ...), just won't
		// adopt grandchildren of a dead intermediate process.
		return nil
	}
	return err
}

// reapAll drains every child currently reapable via a non-blocking Wait4
// loop, emitting exactly one Exited or Signaled event per child (other wait
// statuses — stopped/continued — are ignored).
func reapAll(t *tomb.Tomb, bus chan<- Event) {
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		switch err {
		case nil:
			if pid <= 0 {
				return
			}
			switch {
			case status.Exited():
				sendEvent(t, bus, Exited{Pid: pid, Code: status.ExitStatus()})
			case status.Signaled():
				sendEvent(t, bus, Signaled{Pid: pid, Sig: status.Signal()})
			default:
				// Stopped or continued; not a termination, ignore and keep
				// draining in case another child is also reapable.
			}
		case unix.ECHILD:
			return
		default:
			// No other wait4 failure is expected in practice; there is no
			// event type for it, and the reactor is the only component
			// that writes diagnostics, so it is dropped here.
			return
		}
	}
}
