package nameutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateScriptName checks whether name is acceptable as a relative
// script reference: non-empty, valid UTF-8, printable, and a plain
// file name rather than a path. Absolute paths are handled by the
// caller and never reach this check.
func ValidateScriptName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid script name: empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("invalid script name: not valid UTF-8")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid script name: contains control character U+%04X", r)
		}
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid script name: %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid script name: must not contain path separators: %q", name)
	}
	return nil
}

// SanitizeTitle removes control and zero-width characters commonly
// introduced by copy/paste and trims surrounding whitespace. Returns
// the cleaned string and whether anything changed. Used when recording
// maintenance actions from interactive input.
func SanitizeTitle(s string) (string, bool) {
	if s == "" {
		return s, false
	}
	out := make([]rune, 0, len(s))
	changed := false
	for _, r := range s {
		if unicode.IsControl(r) {
			changed = true
			continue
		}
		switch r {
		case '​', '‌', '‍', '﻿':
			changed = true
			continue
		}
		out = append(out, r)
	}
	res := strings.TrimSpace(string(out))
	if res != s {
		changed = true
	}
	return res, changed
}
