package engine

import "supermon/internal/config"

// AppInfo is the engine-internal projection of an AppSpec. It is created
// once per configured app, shared by reference between the reactor and the
// goroutines handling its child, and lives for the full lifetime of the
// supervisor — it is not tied to any single child process instance, so a
// restart reuses the same AppInfo. AppInfo is immutable after construction;
// nothing in the engine ever mutates a field on it.
type AppInfo struct {
	Name         string
	Exec         string
	Args         []string
	Env          []string
	Workdir      string
	Stdout       bool
	Stderr       bool
	Restart      bool
	RestartDelay uint
	Disable      bool
}

// NewAppInfo builds the immutable AppInfo for a configured app.
func NewAppInfo(spec *config.AppSpec) *AppInfo {
	return &AppInfo{
		Name:         spec.Name,
		Exec:         spec.Exec,
		Args:         append([]string(nil), spec.Args...),
		Env:          append([]string(nil), spec.Env...),
		Workdir:      spec.Workdir,
		Stdout:       spec.WantStdout(),
		Stderr:       spec.WantStderr(),
		Restart:      spec.WantRestart(),
		RestartDelay: spec.Delay(),
		Disable:      spec.Disable,
	}
}
