package brew

import (
	"encoding/json"
	"strings"
)

// Package is one formula or cask as the rest of the system sees it.
// Version is the installed version where known; Current is the newest
// version Homebrew advertises.
type Package struct {
	Name               string
	Version            string
	Current            string
	Description        string
	Homepage           string
	Cask               bool
	Pinned             bool
	Outdated           bool
	InstalledOnRequest bool
}

// parseInfo decodes `brew info --json=v2` output. With installedOnly
// set, formulae without an installed version are dropped (the --installed
// flag already filters, but brew also emits bare entries for taps).
func parseInfo(jsonData string, installedOnly bool) ([]Package, error) {
	var data struct {
		Formulae []struct {
			Name     string `json:"name"`
			Desc     string `json:"desc"`
			Homepage string `json:"homepage"`
			Versions struct {
				Stable string `json:"stable"`
			} `json:"versions"`
			Installed []struct {
				Version            string `json:"version"`
				InstalledOnRequest bool   `json:"installed_on_request"`
			} `json:"installed"`
			Pinned   bool `json:"pinned"`
			Outdated bool `json:"outdated"`
		} `json:"formulae"`
		Casks []struct {
			Token     string `json:"token"`
			Desc      string `json:"desc"`
			Homepage  string `json:"homepage"`
			Version   string `json:"version"`
			Installed string `json:"installed"`
			Outdated  bool   `json:"outdated"`
		} `json:"casks"`
	}
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, &Error{Op: "info", Message: "parse JSON: " + err.Error()}
	}

	var pkgs []Package
	for _, f := range data.Formulae {
		if installedOnly && len(f.Installed) == 0 {
			continue
		}
		p := Package{
			Name:        f.Name,
			Current:     f.Versions.Stable,
			Description: f.Desc,
			Homepage:    f.Homepage,
			Pinned:      f.Pinned,
			Outdated:    f.Outdated,
		}
		if len(f.Installed) > 0 {
			p.Version = f.Installed[0].Version
			p.InstalledOnRequest = f.Installed[0].InstalledOnRequest
		}
		pkgs = append(pkgs, p)
	}
	for _, c := range data.Casks {
		if installedOnly && c.Installed == "" {
			continue
		}
		pkgs = append(pkgs, Package{
			Name:        c.Token,
			Version:     c.Installed,
			Current:     c.Version,
			Description: c.Desc,
			Homepage:    c.Homepage,
			Cask:        true,
			Outdated:    c.Outdated,
		})
	}
	return pkgs, nil
}

// parseOutdated decodes `brew outdated --json=v2` output.
func parseOutdated(jsonData string) ([]Package, error) {
	var data struct {
		Formulae []struct {
			Name              string   `json:"name"`
			InstalledVersions []string `json:"installed_versions"`
			CurrentVersion    string   `json:"current_version"`
			Pinned            bool     `json:"pinned"`
		} `json:"formulae"`
		Casks []struct {
			Name              string   `json:"name"`
			InstalledVersions []string `json:"installed_versions"`
			CurrentVersion    string   `json:"current_version"`
		} `json:"casks"`
	}
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, &Error{Op: "outdated", Message: "parse JSON: " + err.Error()}
	}

	var pkgs []Package
	for _, f := range data.Formulae {
		pkgs = append(pkgs, Package{
			Name:     f.Name,
			Version:  strings.Join(f.InstalledVersions, ", "),
			Current:  f.CurrentVersion,
			Pinned:   f.Pinned,
			Outdated: true,
		})
	}
	for _, c := range data.Casks {
		pkgs = append(pkgs, Package{
			Name:     c.Name,
			Version:  strings.Join(c.InstalledVersions, ", "),
			Current:  c.CurrentVersion,
			Cask:     true,
			Outdated: true,
		})
	}
	return pkgs, nil
}
