// Package script executes maintenance scripts from a configured
// directory and reports their failures.
package script

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/upkeepcli/upkeep/internal/logging"
	"github.com/upkeepcli/upkeep/internal/nameutil"
	"github.com/upkeepcli/upkeep/internal/report"
)

const defaultSimulateDelay = 300 * time.Millisecond

// RunRecord is one execution attempt handed to the history sink.
type RunRecord struct {
	RunID     string
	Script    string
	Args      []string
	Elevated  bool
	DryRun    bool
	ExitCode  int
	OK        bool
	Output    string
	StartedAt time.Time
	Duration  time.Duration
}

// RunRecorder receives a record after every run attempt. Implemented
// by the history store; nil disables recording.
type RunRecorder interface {
	RecordRun(rec RunRecord)
}

// RunError is returned when a script exits non-zero or fails to
// start. The failure has already been appended to the reporting log
// by the time the caller sees it.
type RunError struct {
	Script   string
	Args     []string
	ExitCode int // -1 when the process never started
	Output   string
}

func (e *RunError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("script %s exited with status %d", e.Script, e.ExitCode)
	}
	return fmt.Sprintf("script %s did not complete: %s", e.Script, e.Output)
}

// Options adjust a single run.
type Options struct {
	// Elevate prefixes the invocation with pkexec.
	Elevate bool
	// Stdin, when non-nil, is piped to the script.
	Stdin io.Reader
}

// Runner executes named scripts resolved against BaseDir. Execution is
// synchronous on the caller's goroutine; stdout and stderr are merged
// in process order. A nil error means success under the contract:
// dry-run and an unconfigured BaseDir both succeed without executing
// anything.
type Runner struct {
	// BaseDir is the script directory. Empty means not configured:
	// runs are skipped and reported as successful with a warning.
	BaseDir string
	// DryRun simulates every run as an unconditional success.
	DryRun bool
	// Reporter receives execution failures. Optional.
	Reporter *report.Log
	// History receives a record per attempt. Optional.
	History RunRecorder
	// Log defaults to slog.Default().
	Log *slog.Logger
	// SimulateDelay paces dry-run simulation; zero means the default.
	SimulateDelay time.Duration
}

// New returns a Runner with the default simulation pacing.
func New(baseDir string, dryRun bool, reporter *report.Log) *Runner {
	return &Runner{BaseDir: baseDir, DryRun: dryRun, Reporter: reporter}
}

// Run executes the named script and discards its output.
func (r *Runner) Run(ctx context.Context, name string, args []string, opts Options) error {
	_, err := r.exec(ctx, name, args, opts, nil)
	return err
}

// RunOutput executes the named script and returns the merged
// stdout+stderr, which is populated even when the run fails.
func (r *Runner) RunOutput(ctx context.Context, name string, args []string, opts Options) (string, error) {
	return r.exec(ctx, name, args, opts, nil)
}

// RunStream executes the named script and hands each merged output
// line to onLine as it is produced. Lines are opaque to the runner;
// ParseEvent decodes the progress protocol.
func (r *Runner) RunStream(ctx context.Context, name string, args []string, opts Options, onLine func(line string)) error {
	if onLine == nil {
		return fmt.Errorf("script: RunStream requires an onLine callback")
	}
	_, err := r.exec(ctx, name, args, opts, onLine)
	return err
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

func (r *Runner) simulateDelay() time.Duration {
	if r.SimulateDelay > 0 {
		return r.SimulateDelay
	}
	return defaultSimulateDelay
}

// resolve maps a script name to an executable path. Absolute names are
// used as-is; relative names must stay inside BaseDir.
func (r *Runner) resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if err := nameutil.ValidateScriptName(name); err != nil {
		return "", err
	}
	base := filepath.Clean(r.BaseDir)
	path := filepath.Join(base, name)
	if path != base && !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("script name escapes the script directory: %s", name)
	}
	return path, nil
}

func (r *Runner) exec(ctx context.Context, name string, args []string, opts Options, onLine func(string)) (string, error) {
	log := r.logger()

	if r.DryRun {
		r.simulate(ctx, log, name, args, opts, onLine)
		return "", nil
	}
	if r.BaseDir == "" {
		log.WarnContext(ctx, "scripts directory not configured, skipping script", "script", name)
		return "", nil
	}

	runID := uuid.NewString()
	ctx = logging.WithAttrs(ctx,
		slog.String("run_id", runID),
		slog.String("script", name),
	)

	path, err := r.resolve(name)
	if err != nil {
		return "", r.fail(ctx, log, RunRecord{
			RunID: runID, Script: name, Args: args,
			Elevated: opts.Elevate, ExitCode: -1,
			StartedAt: time.Now(),
		}, []string{name}, err.Error())
	}

	argv := make([]string, 0, len(args)+2)
	if opts.Elevate {
		argv = append(argv, "pkexec")
	}
	argv = append(argv, path)
	argv = append(argv, args...)

	log.InfoContext(ctx, "running script", "command", shellquote.Join(argv...))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	started := time.Now()
	var output bytes.Buffer
	var runErr error
	if onLine == nil {
		cmd.Stdout = &output
		cmd.Stderr = &output
		// Bound the post-exit wait so a descendant that inherits the
		// output pipe cannot stall the call forever.
		cmd.WaitDelay = 5 * time.Second
		runErr = cmd.Run()
		if errors.Is(runErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 0 {
			// The script itself exited 0; only the pipe lingered.
			runErr = nil
		}
	} else {
		runErr = r.stream(ctx, cmd, &output, onLine)
	}
	rec := RunRecord{
		RunID:     runID,
		Script:    name,
		Args:      args,
		Elevated:  opts.Elevate,
		OK:        runErr == nil,
		Output:    output.String(),
		StartedAt: started,
		Duration:  time.Since(started),
	}

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			rec.ExitCode = exitErr.ExitCode()
		} else {
			rec.ExitCode = -1
			if output.Len() == 0 {
				rec.Output = runErr.Error()
			}
		}
		message := strings.TrimSpace(rec.Output)
		if message == "" {
			message = runErr.Error()
		}
		return output.String(), r.fail(ctx, log, rec, argv, message)
	}

	r.record(rec)
	log.DebugContext(ctx, "script finished", "duration", rec.Duration)
	return output.String(), nil
}

// stream wires both output streams through one pipe and scans it line
// by line on the calling goroutine. The write end is closed in the
// parent after start; the child's copy keeps it open until exit, so
// the scan loop ends exactly when output does. A context watcher
// closes the read end on cancellation, which unblocks the scan even
// when a descendant process still holds the pipe.
func (r *Runner) stream(ctx context.Context, cmd *exec.Cmd, output *bytes.Buffer, onLine func(string)) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return err
	}
	_ = pw.Close()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = pr.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		output.WriteString(line)
		output.WriteByte('\n')
		onLine(line)
	}
	close(done)
	_ = pr.Close()
	return cmd.Wait()
}

// simulate logs the would-be command and succeeds after a canned
// delay. Streaming consumers receive the fixed protocol sequence.
func (r *Runner) simulate(ctx context.Context, log *slog.Logger, name string, args []string, opts Options, onLine func(string)) {
	display := append([]string{name}, args...)
	if opts.Elevate {
		display = append([]string{"pkexec"}, display...)
	}
	log.InfoContext(ctx, "dry-run, skipping script", "command", shellquote.Join(display...))

	if onLine == nil {
		time.Sleep(r.simulateDelay())
	} else {
		pace := r.simulateDelay() / 4
		for _, line := range SimulatedLines(name) {
			time.Sleep(pace)
			onLine(line)
		}
	}

	r.record(RunRecord{
		RunID:     uuid.NewString(),
		Script:    name,
		Args:      args,
		Elevated:  opts.Elevate,
		DryRun:    true,
		OK:        true,
		StartedAt: time.Now(),
	})
}

// fail appends the failure to the reporting log, records history, and
// wraps the details in a RunError.
func (r *Runner) fail(ctx context.Context, log *slog.Logger, rec RunRecord, argv []string, message string) error {
	if r.Reporter != nil {
		r.Reporter.Report(rec.Script, argv, message)
	}
	r.record(rec)
	log.ErrorContext(ctx, "script failed", "exit_code", rec.ExitCode, "message", message)
	return &RunError{
		Script:   rec.Script,
		Args:     rec.Args,
		ExitCode: rec.ExitCode,
		Output:   message,
	}
}

func (r *Runner) record(rec RunRecord) {
	if r.History != nil {
		r.History.RecordRun(rec)
	}
}
