package engine

import (
	"syscall"
	"time"

	"gopkg.in/tomb.v2"

	"supermon/internal/logger"
)

// reactor is the single-threaded consumer that serializes all state
// transitions. It owns the process table, the shutdown flag, and the two
// output sinks; nothing else in the engine mutates them, so no mutex is
// needed here — that's the entire point of routing everything through the
// event bus.
type reactor struct {
	tomb     *tomb.Tomb
	bus      chan Event
	table    map[int]*AppInfo
	shutdown bool
	stdout   *sink
	stderr   *sink
}

func newReactor(t *tomb.Tomb, bus chan Event, stdout, stderr *sink) *reactor {
	return &reactor{
		tomb:   t,
		bus:    bus,
		table:  make(map[int]*AppInfo),
		stdout: stdout,
		stderr: stderr,
	}
}

// run consumes events until the shutdown flag is set and the process table
// has drained.
func (r *reactor) run() {
	for {
		ev := <-r.bus
		r.handle(ev)
		if r.shutdown && len(r.table) == 0 {
			return
		}
	}
}

func (r *reactor) handle(ev Event) {
	switch e := ev.(type) {
	case Started:
		r.table[e.Pid] = e.App
		logger.Noticef("%s spawned with pid %d", e.App.Name, e.Pid)

	case SpawnError:
		// No restart scheduled here — a spawn error usually means a
		// configuration problem, and a tight restart loop on e.g. a missing
		// executable would be worse than doing nothing.
		logger.Noticef("Error spawning app %s: %v", e.App.Name, e.Err)

	case Line:
		s := r.stdout
		if e.Stream == Stderr {
			s = r.stderr
		}
		s.writeLine(e.App.Name, e.Data)

	case Eof, Err:
		// A closed pipe doesn't imply the child has died; termination is
		// reported separately by the reaper.

	case Signal:
		r.handleSignal(e)

	case Exited:
		r.handleTermination(e.Pid, func(app *AppInfo) {
			logger.Noticef("%s has exited with code %d", app.Name, e.Code)
		})

	case Signaled:
		r.handleTermination(e.Pid, func(app *AppInfo) {
			logger.Noticef("%s was terminated by signal %v", app.Name, e.Sig)
		})
	}
}

// handleSignal sets the monotonic shutdown flag (idempotent) and signals
// every live child with the same signal the supervisor received. Children
// live in their own process group, so signalling the pid (the group
// leader) is enough to terminate it cleanly.
func (r *reactor) handleSignal(e Signal) {
	r.shutdown = true
	sig, _ := e.Sig.(syscall.Signal)
	for pid := range r.table {
		if err := syscall.Kill(pid, sig); err != nil {
			logger.Debugf("Cannot signal pid %d: %v", pid, err)
		}
	}
}

// handleTermination looks up pid in the process table. If present, it logs
// via logLine, removes the entry, and applies the restart policy; if
// absent, the pid is a "foreign" process — a grandchild adopted as a
// subreaper, or a zombie this supervisor never tracked — and is logged and
// discarded.
func (r *reactor) handleTermination(pid int, logLine func(app *AppInfo)) {
	app, ok := r.table[pid]
	if !ok {
		logger.Noticef("zombie %d has been reaped", pid)
		return
	}
	delete(r.table, pid)
	logLine(app)
	r.maybeRestart(app)
}

// maybeRestart applies the restart policy: restart only if the app is
// configured to restart and the engine isn't shutting down. The disable
// flag is consulted only at initial startup (see Run), never here — an
// already-disabled app was never started in the first place.
func (r *reactor) maybeRestart(app *AppInfo) {
	if !app.Restart || r.shutdown {
		return
	}
	logger.Noticef("restarting app %s in %d sec(s)", app.Name, app.RestartDelay)
	spawn(r.tomb, r.bus, app, time.Duration(app.RestartDelay)*time.Second)
}
