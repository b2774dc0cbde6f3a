package engine

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"gopkg.in/tomb.v2"
)

// spawn starts one instance of app's child process after delay and launches
// its stream readers. It never waits for the child to exit — that's the
// reaper's job (see reaper.go) — and it never panics on a per-child failure.
//
// Ordering invariant: Started is sent before any stream reader is
// launched, so the reactor always observes Started before any Line/Eof/Err
// from the same child.
func spawn(t *tomb.Tomb, bus chan<- Event, app *AppInfo, delay time.Duration) {
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}

		cmd := exec.Command(app.Exec, app.Args...)
		cmd.Dir = app.Workdir
		cmd.Env = buildEnv(app.Env)
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

		var stdoutPipe, stderrPipe *os.File
		var nullFiles []*os.File
		defer func() {
			for _, f := range nullFiles {
				f.Close()
			}
		}()

		if app.Stdout {
			r, err := cmd.StdoutPipe()
			if err != nil {
				sendEvent(t, bus, SpawnError{App: app, Err: err})
				return
			}
			stdoutPipe = r.(*os.File)
		} else {
			f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
			if err != nil {
				sendEvent(t, bus, SpawnError{App: app, Err: err})
				return
			}
			nullFiles = append(nullFiles, f)
			cmd.Stdout = f
		}

		if app.Stderr {
			r, err := cmd.StderrPipe()
			if err != nil {
				sendEvent(t, bus, SpawnError{App: app, Err: err})
				return
			}
			stderrPipe = r.(*os.File)
		} else {
			f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
			if err != nil {
				sendEvent(t, bus, SpawnError{App: app, Err: err})
				return
			}
			nullFiles = append(nullFiles, f)
			cmd.Stderr = f
		}

		if err := cmd.Start(); err != nil {
			sendEvent(t, bus, SpawnError{App: app, Err: err})
			return
		}

		sendEvent(t, bus, Started{App: app, Pid: cmd.Process.Pid})

		// The null-device files (if any) have already been duplicated into
		// the child's fd table by Start; close our copies now.
		for _, f := range nullFiles {
			f.Close()
		}
		nullFiles = nil

		var wg sync.WaitGroup
		if stdoutPipe != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				readStream(t, bus, app, stdoutPipe, Stdout)
			}()
		}
		if stderrPipe != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				readStream(t, bus, app, stderrPipe, Stderr)
			}()
		}
		// The spawner exits once both stream readers have finished,
		// releasing the pipe handles; it never calls cmd.Wait itself
		// (see reaper.go for why).
		wg.Wait()
		if stdoutPipe != nil {
			stdoutPipe.Close()
		}
		if stderrPipe != nil {
			stderrPipe.Close()
		}
	}()
}

// buildEnv merges the supervisor's own environment with the app's per-entry
// overrides. os/exec.Cmd.Env documents that when duplicate keys are
// present, only the last value for each key is used, which gives
// per-app-overrides-inherited-environment semantics without manual
// de-duplication.
func buildEnv(appEnv []string) []string {
	env := os.Environ()
	return append(env, appEnv...)
}
