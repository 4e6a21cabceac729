package ci

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// lintScript walks up from the working directory to the repository's
// scripts/lint.sh.
func lintScript(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	for {
		candidate := filepath.Join(dir, "scripts", "lint.sh")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	t.Fatalf("scripts/lint.sh not found in repository tree")
	return ""
}

// runLint executes lint.sh with PATH restricted to dir, so the test
// controls exactly which linter and docker binaries are visible.
func runLint(t *testing.T, dir string) (string, error) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tests skipped on Windows")
	}
	cmd := exec.Command("sh", lintScript(t))
	cmd.Env = append(os.Environ(), "PATH="+dir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func writeStub(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

func TestLint_NothingInstalled(t *testing.T) {
	out, err := runLint(t, t.TempDir())
	if err != nil {
		t.Fatalf("lint.sh failed: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "golangci-lint not found locally") {
		t.Fatalf("expected the missing-linter notice, got: %s", out)
	}
	if !strings.Contains(out, "Docker not available; cannot run docker fallback") {
		t.Fatalf("expected the missing-docker notice, got: %s", out)
	}
}

func TestLint_BrokenLinterNoDocker(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "golangci-lint", "echo 'error: unsupported version' >&2\nexit 1\n")

	out, err := runLint(t, dir)
	if err != nil {
		t.Fatalf("lint.sh failed: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "unsupported version") {
		t.Fatalf("expected the linter error forwarded, got: %s", out)
	}
	if !strings.Contains(out, "Docker not available; cannot run docker fallback") {
		t.Fatalf("expected the missing-docker notice, got: %s", out)
	}
}

func TestLint_DockerFallback(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "golangci-lint", "echo 'error: unsupported version' >&2\nexit 1\n")
	writeStub(t, dir, "docker", "echo 'stub docker ran'\nexit 0\n")

	out, err := runLint(t, dir)
	if err != nil {
		t.Fatalf("lint.sh failed: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "Attempting Docker-based golangci-lint") {
		t.Fatalf("expected the fallback attempt, got: %s", out)
	}
	if !strings.Contains(out, "stub docker ran") {
		t.Fatalf("expected the stub docker invoked, got: %s", out)
	}
}

func TestLint_RealFindingsFail(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "golangci-lint", "echo 'main.go:1: unused variable'\nexit 1\n")

	out, err := runLint(t, dir)
	if err == nil {
		t.Fatalf("expected findings to fail the script, output:\n%s", out)
	}
	if !strings.Contains(out, "golangci-lint reported findings") {
		t.Fatalf("expected the findings notice, got: %s", out)
	}
}
