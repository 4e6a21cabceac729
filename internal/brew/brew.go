// Package brew wraps the Homebrew package manager: its command line
// for local state and its formula API for search. Failures surface as
// typed errors to the caller; nothing here writes to the shared
// failure journal.
package brew

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	updateTimeout  = 120 * time.Second
	upgradeTimeout = 300 * time.Second

	// DefaultAPIBase is the public formula API root.
	DefaultAPIBase = "https://formulae.brew.sh/api"
)

// stateChanging lists subcommands that modify system state. Dry-run
// simulates these and lets everything else through.
var stateChanging = map[string]bool{
	"install":   true,
	"uninstall": true,
	"remove":    true,
	"upgrade":   true,
	"update":    true,
	"pin":       true,
	"unpin":     true,
	"bundle":    true,
}

// Client executes Homebrew operations. The zero value works with the
// defaults; construct with New to pick them up explicitly.
type Client struct {
	// BrewPath is the binary to invoke. Empty means "brew".
	BrewPath string
	// APIBase is the formula API root. Empty means DefaultAPIBase.
	APIBase string
	// DryRun simulates state-changing subcommands as successes.
	DryRun bool
	// HTTP is used for API search. Nil gets a client with a sane
	// timeout.
	HTTP *http.Client
	// Log defaults to slog.Default().
	Log *slog.Logger
}

func New(brewPath, apiBase string, dryRun bool) *Client {
	return &Client{BrewPath: brewPath, APIBase: apiBase, DryRun: dryRun}
}

func (c *Client) path() string {
	if c.BrewPath != "" {
		return c.BrewPath
	}
	return "brew"
}

func (c *Client) logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// Available reports whether the brew binary resolves.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.path())
	return err == nil
}

// run executes one brew subcommand under the given timeout and returns
// its stdout. Stderr is folded into the returned error.
func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	op := args[0]
	if c.DryRun && stateChanging[op] {
		c.logger().InfoContext(ctx, "dry-run, skipping brew command", "args", strings.Join(args, " "))
		return "", nil
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, c.path(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if tctx.Err() == context.DeadlineExceeded {
			return "", &Error{Op: op, Message: "timed out after " + timeout.String()}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			return "", &Error{Op: op, Message: msg}
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", &NotFoundError{Message: "Homebrew is not installed"}
		}
		return "", &Error{Op: op, Message: err.Error()}
	}
	return stdout.String(), nil
}

// Installed lists every installed formula and cask.
func (c *Client) Installed(ctx context.Context) ([]Package, error) {
	out, err := c.run(ctx, defaultTimeout, "info", "--installed", "--json=v2")
	if err != nil {
		return nil, err
	}
	return parseInfo(out, true)
}

// Outdated lists packages with a newer version available.
func (c *Client) Outdated(ctx context.Context) ([]Package, error) {
	out, err := c.run(ctx, defaultTimeout, "outdated", "--json=v2")
	if err != nil {
		return nil, err
	}
	return parseOutdated(out)
}

// Info fetches one package by name. An unknown name returns
// *UnknownPackageError.
func (c *Client) Info(ctx context.Context, name string) (*Package, error) {
	out, err := c.run(ctx, defaultTimeout, "info", "--json=v2", name)
	if err != nil {
		var brewErr *Error
		if errors.As(err, &brewErr) && looksLikeUnknownPackage(brewErr.Message) {
			return nil, &UnknownPackageError{Name: name}
		}
		return nil, err
	}
	pkgs, err := parseInfo(out, false)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, &UnknownPackageError{Name: name}
	}
	return &pkgs[0], nil
}

func looksLikeUnknownPackage(msg string) bool {
	return strings.Contains(msg, "No available formula") ||
		strings.Contains(msg, "No formulae or casks found")
}

// Update refreshes Homebrew itself.
func (c *Client) Update(ctx context.Context) error {
	_, err := c.run(ctx, updateTimeout, "update")
	return err
}

// Upgrade upgrades one package, or everything when name is empty.
func (c *Client) Upgrade(ctx context.Context, name string) error {
	args := []string{"upgrade"}
	if name != "" {
		args = append(args, name)
	}
	_, err := c.run(ctx, upgradeTimeout, args...)
	return err
}

// Install installs a formula, or a cask when cask is set.
func (c *Client) Install(ctx context.Context, name string, cask bool) error {
	args := []string{"install"}
	if cask {
		args = append(args, "--cask")
	}
	args = append(args, name)
	_, err := c.run(ctx, upgradeTimeout, args...)
	return err
}

// Uninstall removes a formula or cask.
func (c *Client) Uninstall(ctx context.Context, name string, cask bool) error {
	args := []string{"uninstall"}
	if cask {
		args = append(args, "--cask")
	}
	args = append(args, name)
	_, err := c.run(ctx, defaultTimeout, args...)
	return err
}

// Pin holds a formula at its current version.
func (c *Client) Pin(ctx context.Context, name string) error {
	_, err := c.run(ctx, defaultTimeout, "pin", name)
	return err
}

// Unpin releases a pinned formula.
func (c *Client) Unpin(ctx context.Context, name string) error {
	_, err := c.run(ctx, defaultTimeout, "unpin", name)
	return err
}

// BundleDump writes the installed package set to a Brewfile.
func (c *Client) BundleDump(ctx context.Context, path string, force bool) error {
	args := []string{"bundle", "dump"}
	if path != "" {
		args = append(args, "--file="+path)
	}
	if force {
		args = append(args, "--force")
	}
	_, err := c.run(ctx, upgradeTimeout, args...)
	return err
}

// BundleInstall installs everything a Brewfile lists.
func (c *Client) BundleInstall(ctx context.Context, path string) error {
	args := []string{"bundle", "install"}
	if path != "" {
		args = append(args, "--file="+path)
	}
	_, err := c.run(ctx, upgradeTimeout, args...)
	return err
}

// Version returns the first line of `brew --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, defaultTimeout, "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return line, nil
}
