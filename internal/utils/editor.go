package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// OpenEditor opens path in the user's preferred editor and waits for it to
// exit. $EDITOR wins; the fallback is vi, or notepad on Windows.
func OpenEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = fallbackEditor()
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}

func fallbackEditor() string {
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}
