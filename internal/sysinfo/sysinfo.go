// Package sysinfo reads host information: os-release fields, the running
// kernel, and the distribution's published update manifest.
package sysinfo

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const manifestTimeout = 15 * time.Second

// ParseOSRelease reads key=value pairs in os-release syntax, skipping blank
// lines and comments and stripping surrounding quotes from values.
func ParseOSRelease(r io.Reader) (map[string]string, error) {
	fields := map[string]string{}
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		fields[strings.TrimSpace(key)] = value
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read os-release: %w", err)
	}
	return fields, nil
}

// Load parses the os-release file at path.
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open os-release: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseOSRelease(f)
}

// LoadHost reads the host's os-release, trying /etc first and falling back
// to /usr/lib.
func LoadHost() (map[string]string, error) {
	fields, err := Load("/etc/os-release")
	if err == nil {
		return fields, nil
	}
	return Load("/usr/lib/os-release")
}

// Kernel returns the running kernel release, or "" when it cannot be read.
func Kernel() string {
	b, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// Title renders a raw identifier like "workstation-edition" for display.
func Title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "-", " "))
}

// Manifest describes the latest system release published by the
// distribution.
type Manifest struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	URL     string   `json:"url"`
	Changes []string `json:"changes"`
}

// FetchManifest downloads the update manifest from url. A 404 means the
// distribution publishes none; that and an empty url return (nil, nil).
func FetchManifest(ctx context.Context, url string) (*Manifest, error) {
	if url == "" {
		return nil, nil
	}

	tctx, cancel := context.WithTimeout(ctx, manifestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(tctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch manifest: unexpected status %d", resp.StatusCode)
	}

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
