package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/upkeepcli/upkeep/internal/config"
)

// setupEnv points the database at a per-test location, writes a config
// file, and returns its path for the --config flag. Every execute call
// in tests passes --config explicitly so no state leaks between tests.
func setupEnv(t *testing.T, cfgBody string) string {
	t.Helper()
	t.Setenv(config.EnvDBPath, filepath.Join(t.TempDir(), "upkeep.db"))
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(cfgBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// writeScript drops an executable shell script into dir.
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

// execute runs the root command with args. Flag values stick between
// Execute calls in one process, so everything touched is reset first.
func execute(args ...string) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func captureOutput(f func()) (string, string) {
	oldOut := os.Stdout
	oldErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	outC := make(chan string)
	errC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		outC <- buf.String()
	}()
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rErr)
		errC <- buf.String()
	}()

	f()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldOut
	os.Stderr = oldErr

	out := <-outC
	err := <-errC
	return out, err
}

func scriptConfig(t *testing.T, scriptsDir string, dryRun bool) string {
	t.Helper()
	return setupEnv(t, fmt.Sprintf("scripts_dir: %q\ndry_run: %v\n", scriptsDir, dryRun))
}
