// Package bundle discovers and inspects Brewfile bundles in the configured
// directories.
package bundle

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ext = ".Brewfile"

// Bundle is one discovered Brewfile.
type Bundle struct {
	Name        string
	Path        string
	Description string
	Taps        int
	Formulae    int
	Casks       int
	MAS         int
}

// Entries returns the total number of installable entries.
func (b Bundle) Entries() int {
	return b.Taps + b.Formulae + b.Casks + b.MAS
}

// Discover scans dirs for Brewfiles. A file named <name>.Brewfile keeps
// <name>; a bare Brewfile takes its directory's name. Directories that do
// not exist are skipped. When two bundles share a name, the first directory
// in dirs wins.
func Discover(dirs []string) ([]Bundle, error) {
	seen := map[string]bool{}
	var bundles []Bundle
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read bundle dir %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := bundleName(dir, e.Name())
			if name == "" || seen[name] {
				continue
			}
			b, err := inspect(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			b.Name = name
			seen[name] = true
			bundles = append(bundles, b)
		}
	}
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Name < bundles[j].Name })
	return bundles, nil
}

func bundleName(dir, file string) string {
	if file == "Brewfile" {
		return filepath.Base(dir)
	}
	if strings.HasSuffix(file, ext) {
		return strings.TrimSuffix(file, ext)
	}
	return ""
}

// Find returns the bundle with the given name.
func Find(bundles []Bundle, name string) (Bundle, bool) {
	for _, b := range bundles {
		if b.Name == name {
			return b, true
		}
	}
	return Bundle{}, false
}

// inspect reads the file's leading comment as its description and counts its
// entries by directive.
func inspect(path string) (Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("open bundle: %w", err)
	}
	defer func() { _ = f.Close() }()

	b := Bundle{Path: path}
	sawEntry := false
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "#"):
			if b.Description == "" && !sawEntry {
				b.Description = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			}
		default:
			sawEntry = true
			switch fields := strings.Fields(line); fields[0] {
			case "tap":
				b.Taps++
			case "brew":
				b.Formulae++
			case "cask":
				b.Casks++
			case "mas":
				b.MAS++
			}
		}
	}
	if err := s.Err(); err != nil {
		return Bundle{}, fmt.Errorf("read bundle: %w", err)
	}
	return b, nil
}
