package shell

import (
	"io"

	"github.com/gYonder/tsh/internal/bookmark"
	"github.com/gYonder/tsh/internal/history"
	"github.com/gYonder/tsh/internal/jobtable"
)

// Env is the I/O context a builtin runs with: the caller-supplied fds
// (spec.md §4.7 — builtins honor the caller-supplied I/O fds, e.g. when
// `jobs` sits on the left of a pipe).
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Controller is the subset of the launcher's capabilities builtins are
// allowed to reach, kept narrow so internal/builtin never needs to import
// this package's process-spawning internals.
type Controller interface {
	Jobs() *jobtable.Table
	History() *history.Ring
	Bookmarks() *bookmark.Store
	Cwd() (string, error)
	Chdir(path string) error
	ResumeJob(target string, foreground bool) error
	ListJobsDetailed(w io.Writer) error
	OpenJobMonitor() error
	Execute(line string) error
}

// BuiltinFunc implements one builtin command. args includes the command
// name itself at args[0]. It returns the status line the REPL should treat
// as the command's "exit status" (0 success, nonzero failure) — builtins
// never fork, so this never reflects a real wait status.
type BuiltinFunc func(args []string, ctl Controller, env *Env) int

// Registry maps builtin names to their implementations. The shell package
// never populates this itself — cmd/tsh/main.go wires internal/builtin's
// functions in, keeping this package decoupled from bookmark/history
// persistence policy.
type Registry map[string]BuiltinFunc
