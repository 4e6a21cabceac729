// Package maintenance runs the short system commands configured by the user,
// such as trimming journals or cleaning package caches.
package maintenance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/upkeepcli/upkeep/internal/config"
	"github.com/upkeepcli/upkeep/internal/report"
	"github.com/upkeepcli/upkeep/internal/security"
)

// Action is one configured maintenance entry.
type Action struct {
	Title   string
	Command string
	Elevate bool
}

// FromConfig converts the configured action list.
func FromConfig(list []config.MaintenanceAction) []Action {
	actions := make([]Action, 0, len(list))
	for _, a := range list {
		actions = append(actions, Action{Title: a.Title, Command: a.Command, Elevate: a.Elevate})
	}
	return actions
}

// ToConfig converts an action back to its config form.
func (a Action) ToConfig() config.MaintenanceAction {
	return config.MaintenanceAction{Title: a.Title, Command: a.Command, Elevate: a.Elevate}
}

// Argv splits the action's command line into an argument vector. The command
// runs without a shell, so quoting follows shell word rules but no expansion
// or redirection happens.
func (a Action) Argv() ([]string, error) {
	argv, err := shellquote.Split(a.Command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", a.Command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command for %q", a.Title)
	}
	return argv, nil
}

// Find resolves key against the action list. key is a 1-based index or a
// case-insensitive title.
func Find(actions []Action, key string) (Action, error) {
	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 || n > len(actions) {
			return Action{}, fmt.Errorf("no maintenance action %d (have %d)", n, len(actions))
		}
		return actions[n-1], nil
	}
	for _, a := range actions {
		if strings.EqualFold(a.Title, key) {
			return a, nil
		}
	}
	return Action{}, fmt.Errorf("no maintenance action named %q", key)
}

// Runner executes maintenance actions.
type Runner struct {
	DryRun bool

	// Force skips the destructive-command check.
	Force bool

	Reporter *report.Log
	Log      *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// Run executes a, writing the child's output to stdout and stderr. Failures
// are reported to the error channel before being returned.
func (r *Runner) Run(ctx context.Context, a Action, stdout, stderr io.Writer) error {
	if err := ValidateCommand(a.Command); err != nil {
		return err
	}
	if !r.Force {
		if err := security.CheckAllowed(a.Command); err != nil {
			return fmt.Errorf("%s: %w (use --force to override)", a.Title, err)
		}
	}

	argv, err := a.Argv()
	if err != nil {
		return err
	}
	if a.Elevate {
		argv = append([]string{"pkexec"}, argv...)
	}

	if r.DryRun {
		r.logger().Info("dry-run, skipping maintenance action", "title", a.Title)
		fmt.Fprintf(stdout, "dry-run: %s\n", a.Command)
		return nil
	}

	r.logger().Info("running maintenance action", "title", a.Title, "command", shellquote.Join(argv...))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr
	runErr := cmd.Run()

	_, _ = stdout.Write(bout.Bytes())
	_, _ = stderr.Write(berr.Bytes())

	if runErr != nil {
		detail := strings.TrimSpace(berr.String())
		message := detail
		if message == "" {
			message = runErr.Error()
		}
		if r.Reporter != nil {
			r.Reporter.Report(a.Title, argv, message)
		}
		if detail != "" {
			return fmt.Errorf("maintenance action failed: %w (stderr=%q)", runErr, detail)
		}
		return fmt.Errorf("maintenance action failed: %w", runErr)
	}
	return nil
}
