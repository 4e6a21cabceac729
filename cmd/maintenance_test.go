package cmd

import (
	"fmt"
	"strings"
	"testing"
)

func maintenanceConfig(t *testing.T, dryRun bool) string {
	t.Helper()
	return setupEnv(t, fmt.Sprintf(
		"dry_run: %v\nmaintenance:\n  - title: Clean caches\n    command: echo cleaning\n", dryRun))
}

func TestMaintenance_List(t *testing.T) {
	cfgPath := maintenanceConfig(t, true)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "maintenance", "list"); err != nil {
			t.Errorf("list failed: %v", err)
		}
	})
	if !strings.Contains(out, "Clean caches") || !strings.Contains(out, "echo cleaning") {
		t.Fatalf("expected the configured action, got: %q", out)
	}
}

func TestMaintenance_RunDryRun(t *testing.T) {
	cfgPath := maintenanceConfig(t, true)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "maintenance", "run", "1"); err != nil {
			t.Errorf("run failed: %v", err)
		}
	})
	if !strings.Contains(out, "dry-run: echo cleaning") {
		t.Fatalf("expected the dry-run notice, got: %q", out)
	}
}

func TestMaintenance_RunByTitle(t *testing.T) {
	cfgPath := maintenanceConfig(t, false)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "maintenance", "run", "clean caches"); err != nil {
			t.Errorf("run failed: %v", err)
		}
	})
	if !strings.Contains(out, "cleaning") || !strings.Contains(out, "ok: Clean caches") {
		t.Fatalf("expected the command output, got: %q", out)
	}
}

func TestMaintenance_RunUnknown(t *testing.T) {
	cfgPath := maintenanceConfig(t, true)

	_, _ = captureOutput(func() {
		if err := execute("--config", cfgPath, "maintenance", "run", "defrag"); err == nil {
			t.Errorf("expected an error for an unknown action")
		}
	})
}
