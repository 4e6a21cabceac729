package cmd

import (
	"strings"
	"testing"
)

func TestRun_PrintsOutput(t *testing.T) {
	scripts := t.TempDir()
	writeScript(t, scripts, "greet", "echo hello from greet\n")
	cfgPath := scriptConfig(t, scripts, false)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "run", "greet"); err != nil {
			t.Errorf("run failed: %v", err)
		}
	})
	if !strings.Contains(out, "hello from greet") {
		t.Fatalf("expected script output, got: %q", out)
	}
	if !strings.Contains(out, "ok: greet") {
		t.Fatalf("expected success line, got: %q", out)
	}
}

func TestRun_FailureIsReported(t *testing.T) {
	scripts := t.TempDir()
	writeScript(t, scripts, "flaky", "echo boom >&2\nexit 3\n")
	cfgPath := scriptConfig(t, scripts, false)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "run", "flaky"); err == nil {
			t.Errorf("expected the run to fail")
		}
	})
	if !strings.Contains(out, "exited with code 3") {
		t.Fatalf("expected the exit code in output, got: %q", out)
	}

	// The failure must be visible through the errors command afterwards.
	out, _ = captureOutput(func() {
		if err := execute("--config", cfgPath, "errors"); err != nil {
			t.Errorf("errors failed: %v", err)
		}
	})
	if !strings.Contains(out, "flaky") || !strings.Contains(out, "boom") {
		t.Fatalf("expected the reported failure, got: %q", out)
	}
}

func TestRun_FollowRendersProtocolEvents(t *testing.T) {
	scripts := t.TempDir()
	writeScript(t, scripts, "steps",
		`echo '{"type":"step","step":1,"total_steps":2,"step_name":"download"}'`+"\n"+
			`echo plain line`+"\n"+
			`echo '{"type":"complete","message":"all done"}'`+"\n")
	cfgPath := scriptConfig(t, scripts, false)

	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "run", "steps", "--follow"); err != nil {
			t.Errorf("run failed: %v", err)
		}
	})
	if !strings.Contains(out, "[1/2] download") {
		t.Fatalf("expected rendered step event, got: %q", out)
	}
	if !strings.Contains(out, "plain line") {
		t.Fatalf("expected non-protocol lines passed through, got: %q", out)
	}
	if !strings.Contains(out, "done: all done") {
		t.Fatalf("expected rendered completion, got: %q", out)
	}
}

func TestRun_DryRunSimulatesStream(t *testing.T) {
	scripts := t.TempDir()
	cfgPath := scriptConfig(t, scripts, true)

	// No script file exists; a dry-run never touches the filesystem.
	out, _ := captureOutput(func() {
		if err := execute("--config", cfgPath, "run", "imaginary", "--follow"); err != nil {
			t.Errorf("dry-run failed: %v", err)
		}
	})
	if !strings.Contains(out, "imaginary finished (dry-run)") {
		t.Fatalf("expected simulated completion, got: %q", out)
	}
}

func TestRun_DestructiveCommandBlocked(t *testing.T) {
	scripts := t.TempDir()
	cfgPath := scriptConfig(t, scripts, true)

	_, _ = captureOutput(func() {
		if err := execute("--config", cfgPath, "run", "cleanup", "rm -rf /"); err == nil {
			t.Errorf("expected the destructive argument to be rejected")
		}
	})
}
