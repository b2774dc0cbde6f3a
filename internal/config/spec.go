// Package config decodes the supermon YAML spec file into AppSpec values.
//
// This is explicitly a collaborator of the supervision engine, not part of
// it: the engine receives a fully-populated, immutable slice of AppSpecs and
// never parses YAML itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// AppSpec is the on-disk, immutable-once-parsed description of one
// supervised app.
type AppSpec struct {
	Name         string   `yaml:"-"`
	Exec         string   `yaml:"exec"`
	Args         []string `yaml:"args"`
	Env          []string `yaml:"env"`
	Workdir      string   `yaml:"workdir"`
	Stdout       *bool    `yaml:"stdout"`
	Stderr       *bool    `yaml:"stderr"`
	Restart      *bool    `yaml:"restart"`
	RestartDelay *uint    `yaml:"restartDelay"`
	Disable      bool     `yaml:"disable"`
}

// WantStdout reports whether the app's stdout should be piped (default true).
func (a *AppSpec) WantStdout() bool {
	return a.Stdout == nil || *a.Stdout
}

// WantStderr reports whether the app's stderr should be piped (default true).
func (a *AppSpec) WantStderr() bool {
	return a.Stderr == nil || *a.Stderr
}

// WantRestart reports whether the app should be restarted on exit (default true).
func (a *AppSpec) WantRestart() bool {
	return a.Restart == nil || *a.Restart
}

// Delay returns the configured restart delay in seconds (default 1).
func (a *AppSpec) Delay() uint {
	if a.RestartDelay == nil {
		return 1
	}
	return *a.RestartDelay
}

// Spec is the top-level document: a single "apps" mapping.
type Spec struct {
	Apps map[string]*AppSpec `yaml:"apps"`
}

// FormatError is returned when the spec file has a syntax or schema error.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// Load reads and strictly decodes the spec file at path. Unknown top-level
// "apps.<name>" fields are rejected (yaml.Decoder.KnownFields(true)).
// An empty workdir is set to "." here. The stdout/stderr/restart (true) and
// restartDelay (1) defaults are applied by AppSpec's accessor methods, not
// baked into the returned structs, so an unset field and one explicitly set
// to its default remain distinguishable. Disable is a plain bool whose zero
// value, false, is its default.
func Load(path string) (*Spec, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve spec path %q: %w", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot open spec file: %w", err)
	}
	defer f.Close()

	var spec Spec
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, &FormatError{Message: fmt.Sprintf("cannot parse spec %q: %v", abs, err)}
	}

	for name, app := range spec.Apps {
		if app == nil {
			return nil, &FormatError{Message: fmt.Sprintf("app %q has no body", name)}
		}
		app.Name = name
		if app.Exec == "" {
			return nil, &FormatError{Message: fmt.Sprintf("app %q: exec is required", name)}
		}
		if app.Workdir == "" {
			app.Workdir = "."
		}
	}

	return &spec, nil
}

// Names returns the app names in the spec, sorted, for deterministic
// startup-order logging (the spec itself makes no ordering guarantee
// between apps — this is purely for reproducible log output).
func (s *Spec) Names() []string {
	names := make([]string, 0, len(s.Apps))
	for name := range s.Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
