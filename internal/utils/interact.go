// Package utils provides small interactive helpers shared by the commands.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm prompts the user with msg and expects y/n on stdin. Returns true
// for yes.
func Confirm(msg string) bool {
	return ConfirmReader(msg, os.Stdin)
}

// ConfirmReader reads the confirmation from r (useful for tests).
func ConfirmReader(msg string, r io.Reader) bool {
	fmt.Printf("%s [y/N]: ", msg)
	br := bufio.NewReader(r)
	line, _ := br.ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}

// Prompt prompts the user and reads a single-line response from stdin.
func Prompt(msg string) string {
	return PromptReader(msg, os.Stdin)
}

// PromptReader prompts the user using the provided reader (useful for tests).
func PromptReader(msg string, r io.Reader) string {
	fmt.Printf("%s: ", msg)
	br := bufio.NewReader(r)
	line, _ := br.ReadString('\n')
	return strings.TrimSpace(line)
}
