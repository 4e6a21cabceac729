package brew

import "fmt"

// Error is a Homebrew execution or API failure. Op names the brew
// subcommand or API call that failed.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("brew %s: %s", e.Op, e.Message)
}

// NotFoundError means the brew binary is not available on this system.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// UnknownPackageError names a formula or cask Homebrew does not know.
type UnknownPackageError struct {
	Name string
}

func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("no formula or cask named %q", e.Name)
}
