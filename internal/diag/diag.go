// Package diag renders the shell's diagnostic output: command-not-found,
// builtin usage errors, and fatal startup failures. It is grounded on the
// original tsh's unix_error/app_error helpers and styled with the same
// palette the job table uses, so a "Stopped" job and a fatal error read as
// part of one consistent interface.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/gYonder/tsh/internal/ui"
)

// Warnf prints a non-fatal diagnostic to stderr, e.g. a builtin's usage
// error or a failed redirection. The message is always rendered through
// ui.ErrorStyle; neither Warnf nor its callers check whether stderr is a
// terminal.
func Warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

// WarnfPlain is Warnf without styling, writing to w instead of stderr.
func WarnfPlain(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// Fatalf prints a fatal error and terminates the process with status 1. It
// is called from cmd/tsh/main.go's startup path (an unreadable config or
// script) and from the signal core when a child wait fails for any reason
// other than "no children" — every other error once the REPL loop is
// running is reported with Warnf and the loop continues.
func Fatalf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// CommandNotFound reports the exact message spec.md's error taxonomy
// requires for an executable that can't be found on PATH.
func CommandNotFound(w io.Writer, name string) {
	fmt.Fprintf(w, "%s: Command not found.\n", name)
}
