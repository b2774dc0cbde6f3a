// Command supermon reads a YAML spec file describing a set of child
// processes and supervises them: spawning, streaming their output,
// restarting them on failure, and shutting them down cleanly on SIGINT or
// SIGTERM.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"supermon/internal/config"
	"supermon/internal/engine"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return 1
	}
	return exitCode
}

// exitCode is set to 1 by runE alongside every error it returns (the spec
// file failing to load, or engine.Run failing, e.g. the reaper's prctl
// call). root.Execute returns those errors as well as usage errors, and run
// returns 1 whenever it does.
var exitCode int

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "supermon <spec-file>",
		Short:        "Supervise a set of child processes described in a YAML spec file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runE,
	}
	return cmd
}

func runE(cmd *cobra.Command, args []string) error {
	specPath := args[0]

	spec, err := config.Load(specPath)
	if err != nil {
		exitCode = 1
		return fmt.Errorf("cannot load spec file: %w", err)
	}

	apps := make([]*engine.AppInfo, 0, len(spec.Apps))
	for _, name := range spec.Names() {
		apps = append(apps, engine.NewAppInfo(spec.Apps[name]))
	}

	if err := engine.Run(apps, os.Stdout, os.Stderr); err != nil {
		exitCode = 1
		return err
	}
	return nil
}
