// Package version provides version information.
package version

import (
	"fmt"
	"strings"

	latest "github.com/tcnksm/go-latest"
)

// Version is set at build time via -ldflags "-X github.com/upkeepcli/upkeep/internal/version.Version=<value>"
// The default is a development placeholder.
var Version = "v0.4.0"

// CheckResult compares the running build against the newest published tag.
type CheckResult struct {
	Current  string
	Latest   string
	Outdated bool
}

// CheckLatest asks GitHub for the newest release tag. Network failures are
// returned to the caller, which typically degrades to printing only the
// local version.
func CheckLatest() (*CheckResult, error) {
	tag := &latest.GithubTag{
		Owner:             "upkeepcli",
		Repository:        "upkeep",
		FixVersionStrFunc: latest.DeleteFrontV(),
	}
	res, err := latest.Check(tag, strings.TrimPrefix(Version, "v"))
	if err != nil {
		return nil, fmt.Errorf("check latest release: %w", err)
	}
	return &CheckResult{Current: Version, Latest: res.Current, Outdated: res.Outdated}, nil
}
