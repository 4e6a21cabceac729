package maintenance

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// sanitizeCommand normalizes unicode punctuation that editors and chat tools
// commonly substitute into pasted commands (smart quotes, NBSP, zero-width
// characters) and drops embedded NULs.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"‘", "'", // left single quote
		"’", "'", // right single quote
		"“", "\"", // left double quote
		"”", "\"", // right double quote
		" ", " ", // NO-BREAK SPACE
		"​", "", // zero width space
		"‎", "", // left-to-right mark
		"‏", "", // right-to-left mark
	)
	rp := r.Replace(s)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, rp)
}

// ValidateCommand rejects command lines that cannot be executed as a single
// argv: embedded newlines and control characters other than tab.
func ValidateCommand(s string) error {
	if strings.Contains(s, "\n") {
		return fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	if strings.IndexFunc(s, func(r rune) bool { return r == 0 || (r < 32 && r != '\t') || r == 0x7f }) != -1 {
		return fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return nil
}

// RecordCommands reads lines from r until EOF and returns non-empty,
// non-comment lines as sanitized command strings. Lines starting with '#'
// are treated as comments and ignored.
func RecordCommands(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	var out []string
	for s.Scan() {
		line := strings.TrimSpace(sanitizeCommand(s.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ValidateCommand(line); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return out, nil
}
