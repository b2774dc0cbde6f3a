package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"supermon/internal/config"
)

func writeSpec(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "supermon.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeSpec(t, `
apps:
  web:
    exec: /usr/bin/python
`)
	spec, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	app, ok := spec.Apps["web"]
	if !ok {
		t.Fatalf("expected app %q", "web")
	}
	if app.Name != "web" {
		t.Errorf("Name = %q, want %q", app.Name, "web")
	}
	if app.Workdir != "." {
		t.Errorf("Workdir = %q, want %q", app.Workdir, ".")
	}
	if !app.WantStdout() || !app.WantStderr() || !app.WantRestart() {
		t.Errorf("expected stdout/stderr/restart to default true")
	}
	if app.Delay() != 1 {
		t.Errorf("Delay() = %d, want 1", app.Delay())
	}
	if app.Disable {
		t.Errorf("expected disable to default false")
	}
}

func TestLoadExplicitFields(t *testing.T) {
	path := writeSpec(t, `
apps:
  worker:
    exec: ./worker
    args: ["-m", "http.server", "8080"]
    env: ["FOO=bar"]
    workdir: /srv
    stdout: false
    restart: true
    restartDelay: 2
    disable: true
`)
	spec, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	app := spec.Apps["worker"]
	if app.WantStdout() {
		t.Errorf("expected stdout false")
	}
	if !app.WantStderr() {
		t.Errorf("expected stderr to default true")
	}
	if app.Delay() != 2 {
		t.Errorf("Delay() = %d, want 2", app.Delay())
	}
	if !app.Disable {
		t.Errorf("expected disable true")
	}
	if app.Workdir != "/srv" {
		t.Errorf("Workdir = %q, want /srv", app.Workdir)
	}
}

func TestLoadUnknownFieldRejected(t *testing.T) {
	path := writeSpec(t, `
apps:
  web:
    exec: /usr/bin/python
    bogus: true
`)
	_, err := config.Load(path)
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadMissingExec(t *testing.T) {
	path := writeSpec(t, `
apps:
  web:
    workdir: /srv
`)
	_, err := config.Load(path)
	if err == nil {
		t.Fatalf("expected error for missing exec")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNamesSorted(t *testing.T) {
	path := writeSpec(t, `
apps:
  zebra:
    exec: /bin/true
  alpha:
    exec: /bin/true
`)
	spec, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := spec.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zebra" {
		t.Fatalf("Names() = %v, want [alpha zebra]", names)
	}
}
