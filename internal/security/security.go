// Package security guards configured maintenance commands against obviously
// destructive mistakes.
package security

import (
	"errors"
	"regexp"
	"strings"
)

var dangerousPatterns = []*regexp.Regexp{
	// Destructive filesystem ops
	regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s+/`),
	regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s*$`),
	regexp.MustCompile(`(?i)\bmkfs(\.[a-z0-9]+)?\b`),
	regexp.MustCompile(`(?i)\bdd\s+.*\bof=/dev/`),
	regexp.MustCompile(`(?i)\bwipefs\b`),
	// whole-device writes
	regexp.MustCompile(`(?i)>\s*/dev/(sd|nvme|vd)`),
	// fork bombs (e.g. :(){ :|:& };:)
	regexp.MustCompile(`:\(\)\s*\{`),
	// piping a remote script straight into a shell
	regexp.MustCompile(`(?i)\b(curl|wget)\b.*\|\s*(ba|z|da)?sh\b`),
}

// CheckAllowed returns nil if the command is allowed to run, or an error
// describing why it's blocked. Checking is conservative and not exhaustive;
// callers may offer an explicit override.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return errors.New("empty command")
	}
	for _, re := range dangerousPatterns {
		if re.MatchString(cmd) {
			return errors.New("command appears destructive or unsafe")
		}
	}
	return nil
}
