package cmd

import (
	"strings"
	"testing"
)

func TestInstall_DryRunLifecycle(t *testing.T) {
	scripts := t.TempDir()
	cfgPath := scriptConfig(t, scripts, true)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "install",
			"flatpak:org.gnome.Calculator", "brew:htop"); err != nil {
			t.Errorf("install failed: %v", err)
		}
	})

	for _, want := range []string{
		"queued org.gnome.Calculator",
		"queued htop",
		"running org.gnome.Calculator",
		"done org.gnome.Calculator",
		"running htop",
		"done htop",
		"all actions processed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %q", want, out)
		}
	}

	// The dry-run flatpak attempt lands in history, tagged.
	out, _ = captureOutput(func() {
		if err := execute("--config", cfgPath, "history"); err != nil {
			t.Errorf("history failed: %v", err)
		}
	})
	if !strings.Contains(out, "flatpak") || !strings.Contains(out, "(dry-run)") {
		t.Fatalf("expected a tagged dry-run row, got: %q", out)
	}
}

func TestInstall_DeferOnly(t *testing.T) {
	scripts := t.TempDir()
	cfgPath := scriptConfig(t, scripts, true)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "install", "--defer-only",
			"brew:jq", "cask:firefox"); err != nil {
			t.Errorf("install failed: %v", err)
		}
	})
	if !strings.Contains(out, "2 actions queued") {
		t.Fatalf("expected queue summary, got: %q", out)
	}
	if strings.Contains(out, "running") {
		t.Fatalf("expected nothing to run, got: %q", out)
	}
}

func TestInstall_RejectsBadTargets(t *testing.T) {
	scripts := t.TempDir()
	cfgPath := scriptConfig(t, scripts, true)

	_, _ = captureOutput(func() {
		if err := execute("--config", cfgPath, "install", "htop"); err == nil {
			t.Errorf("expected an error for a target without a scheme")
		}
		if err := execute("--config", cfgPath, "install", "apt:htop"); err == nil {
			t.Errorf("expected an error for an unknown scheme")
		}
	})
}
