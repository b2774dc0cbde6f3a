// Package engine is THE CORE of supermon: the event-driven supervision
// reactor and its four event sources (stream readers, spawner, reaper,
// signal watcher). It receives a fully-populated, immutable slice of
// AppInfo values from its caller and is otherwise self-contained — it
// never parses configuration or touches the CLI.
package engine

import (
	"io"

	"github.com/google/uuid"
	"gopkg.in/tomb.v2"

	"supermon/internal/logger"
)

// Run starts every non-disabled app, then drives the reactor until a
// terminating signal has been received and every supervised child has
// exited, at which point it returns nil. stdout receives child-stdout
// lines; stderr receives child-stderr lines and all "[supermon] " engine
// diagnostics.
//
// The global logger is redirected to stderr for the duration of the run, so
// that every "[supermon] " line lands on the same writer as the one the
// reactor owns, in the order the reactor produces them — engine diagnostics
// are only ever logged from this function (before the reactor's loop
// starts) or from the reactor's own single goroutine, never concurrently.
func Run(apps []*AppInfo, stdout, stderr io.Writer) error {
	old := logger.SetLogger(logger.New(stderr))
	defer logger.SetLogger(old)

	bus := newBus()
	var t tomb.Tomb

	if err := startReaper(&t, bus); err != nil {
		return err
	}
	startSignalWatcher(&t, bus)

	logger.Noticef("starting run %s", uuid.New())

	for _, app := range apps {
		if !app.Disable {
			spawn(&t, bus, app, 0)
		}
	}

	r := newReactor(&t, bus, newSink(stdout), newSink(stderr))
	r.run()

	t.Kill(nil)
	return t.Wait()
}
