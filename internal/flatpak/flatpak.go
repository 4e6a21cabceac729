// Package flatpak lists Flatpak applications installed on the host.
package flatpak

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const listTimeout = 30 * time.Second

// App is one installed Flatpak application.
type App struct {
	Name    string
	ID      string
	Version string
	Branch  string
	Origin  string
	System  bool
}

// Client shells out to the flatpak binary.
type Client struct {
	// FlatpakPath is the binary to invoke, "flatpak" by default.
	FlatpakPath string

	Log *slog.Logger
}

func New(path string) *Client {
	return &Client{FlatpakPath: path}
}

func (c *Client) path() string {
	if c.FlatpakPath != "" {
		return c.FlatpakPath
	}
	return "flatpak"
}

func (c *Client) logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// Available reports whether the flatpak binary can be found.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.path())
	return err == nil
}

// Installed returns all applications from the user and system installations,
// sorted by name. The two scopes are queried concurrently.
func (c *Client) Installed(ctx context.Context) ([]App, error) {
	var user, system []App

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apps, err := c.list(gctx, false)
		if err != nil {
			return err
		}
		user = apps
		return nil
	})
	g.Go(func() error {
		apps, err := c.list(gctx, true)
		if err != nil {
			return err
		}
		system = apps
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	apps := append(system, user...)
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Name != apps[j].Name {
			return apps[i].Name < apps[j].Name
		}
		return apps[i].ID < apps[j].ID
	})
	return apps, nil
}

func (c *Client) list(ctx context.Context, system bool) ([]App, error) {
	scope := "--user"
	if system {
		scope = "--system"
	}

	tctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, c.path(), "list", "--app", scope, "--columns=name,application,version,branch,origin")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger().Debug("listing flatpak apps", "scope", scope)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("flatpak list %s: %s", scope, msg)
	}
	return parseList(stdout.String(), system), nil
}

// parseList reads the tab separated output of flatpak list. Lines without an
// application ID are dropped.
func parseList(out string, system bool) []App {
	var apps []App
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		app := App{System: system}
		for i, col := range cols {
			col = strings.TrimSpace(col)
			switch i {
			case 0:
				app.Name = col
			case 1:
				app.ID = col
			case 2:
				app.Version = col
			case 3:
				app.Branch = col
			case 4:
				app.Origin = col
			}
		}
		if app.ID == "" {
			continue
		}
		apps = append(apps, app)
	}
	return apps
}
