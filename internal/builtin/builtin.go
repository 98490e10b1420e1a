// Package builtin implements the shell's builtin commands (spec.md §4.7):
// quit/exit, jobs, cd, bg/fg, fc, mark/unmark/marks, and bare `&`. Each
// function is a shell.BuiltinFunc, wired into the launcher's registry by
// cmd/tsh/main.go — this package depends on internal/shell's Controller
// and Env types but shell never imports this package, so there is no
// import cycle between process control and command implementation.
package builtin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gYonder/tsh/internal/shell"
)

// Registry returns every builtin this package implements, ready to pass to
// shell.NewLauncher.
func Registry() shell.Registry {
	return shell.Registry{
		"quit":   Quit,
		"exit":   Quit,
		"jobs":   Jobs,
		"cd":     Cd,
		"bg":     Bg,
		"fg":     Fg,
		"fc":     Fc,
		"mark":   Mark,
		"unmark": Unmark,
		"marks":  Marks,
		"&":      Noop,
	}
}

// Quit terminates the shell with status 1, matching spec.md §6's exit
// status contract for quit/exit.
func Quit(args []string, ctl shell.Controller, env *shell.Env) int {
	os.Exit(1)
	return 1
}

// Noop implements a bare `&` typed alone at the prompt.
func Noop(args []string, ctl shell.Controller, env *shell.Env) int {
	return 0
}

// Jobs lists the job table: plain by default, CPU/RSS-enriched with -l,
// or as the live `jobs -i` monitor.
func Jobs(args []string, ctl shell.Controller, env *shell.Env) int {
	switch {
	case len(args) > 1 && args[1] == "-l":
		if err := ctl.ListJobsDetailed(env.Stdout); err != nil {
			fmt.Fprintf(env.Stderr, "jobs: %s\n", err)
			return 1
		}
	case len(args) > 1 && args[1] == "-i":
		if err := ctl.OpenJobMonitor(); err != nil {
			fmt.Fprintf(env.Stderr, "jobs: %s\n", err)
			return 1
		}
	default:
		ctl.Jobs().List(env.Stdout)
	}
	return 0
}

// Cd changes the working directory. An argument that matches a bookmark
// alias resolves to the bookmarked path before falling back to treating it
// as a literal path; no argument goes to $HOME.
func Cd(args []string, ctl shell.Controller, env *shell.Env) int {
	target := os.Getenv("HOME")
	if len(args) > 1 {
		target = args[1]
		if path, ok := ctl.Bookmarks().Get(target); ok {
			target = path
		}
	}

	if err := ctl.Chdir(target); err != nil {
		switch {
		case os.IsNotExist(err):
			fmt.Fprintf(env.Stderr, "cd: %s: No such file or directory\n", target)
		case isNotADirectory(err):
			fmt.Fprintf(env.Stderr, "cd: %s: Not a directory\n", target)
		default:
			fmt.Fprintf(env.Stderr, "cd: %s: %s\n", target, err)
		}
		return 1
	}
	return 0
}

func isNotADirectory(err error) bool {
	return strings.Contains(err.Error(), "not a directory")
}

// Bg resumes a stopped job in the background.
func Bg(args []string, ctl shell.Controller, env *shell.Env) int {
	return resume(args, ctl, env, false)
}

// Fg resumes a stopped or backgrounded job in the foreground.
func Fg(args []string, ctl shell.Controller, env *shell.Env) int {
	return resume(args, ctl, env, true)
}

func resume(args []string, ctl shell.Controller, env *shell.Env, foreground bool) int {
	if len(args) < 2 {
		fmt.Fprintf(env.Stderr, "%s: argument required\n", args[0])
		return 1
	}
	if err := ctl.ResumeJob(args[1], foreground); err != nil {
		fmt.Fprintf(env.Stderr, "%s\n", err)
		return 1
	}
	return 0
}

// Fc re-executes the history slice [current-max(A,B) .. current-min(A,B)]
// named by `-A n -B m` (spec.md §4.7). Bare `fc` with no flags re-runs the
// single most recent command.
func Fc(args []string, ctl shell.Controller, env *shell.Env) int {
	a, b := 1, 1
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-A":
			if i+1 >= len(args) {
				fmt.Fprintln(env.Stderr, "fc: -A requires an argument")
				return 1
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(env.Stderr, "fc: %s: not a number\n", args[i])
				return 1
			}
			a = n
		case "-B":
			if i+1 >= len(args) {
				fmt.Fprintln(env.Stderr, "fc: -B requires an argument")
				return 1
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(env.Stderr, "fc: %s: not a number\n", args[i])
				return 1
			}
			b = n
		}
	}

	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	// current is one past the newest entry's number, so -A 1 -B 1 names
	// the newest entry itself.
	cur := ctl.History().Current() + 1
	entries := ctl.History().Range(cur-hi, cur-lo)
	if len(entries) == 0 {
		fmt.Fprintln(env.Stderr, "fc: no such event")
		return 1
	}
	for _, e := range entries {
		if err := ctl.Execute(e.Line); err != nil {
			fmt.Fprintf(env.Stderr, "fc: %s\n", err)
			return 1
		}
	}
	return 0
}

// Mark records a bookmark: `mark alias [path]`, defaulting path to the
// current working directory.
func Mark(args []string, ctl shell.Controller, env *shell.Env) int {
	if len(args) < 2 {
		fmt.Fprintln(env.Stderr, "mark: alias required")
		return 1
	}
	path := ""
	if len(args) > 2 {
		path = args[2]
	} else {
		cwd, err := ctl.Cwd()
		if err != nil {
			fmt.Fprintf(env.Stderr, "mark: %s\n", err)
			return 1
		}
		path = cwd
	}
	if err := ctl.Bookmarks().Add(args[1], path); err != nil {
		fmt.Fprintf(env.Stderr, "mark: %s\n", err)
		return 1
	}
	return 0
}

// Unmark removes a bookmark by alias.
func Unmark(args []string, ctl shell.Controller, env *shell.Env) int {
	if len(args) < 2 {
		fmt.Fprintln(env.Stderr, "unmark: alias required")
		return 1
	}
	ok, err := ctl.Bookmarks().Remove(args[1])
	if err != nil {
		fmt.Fprintf(env.Stderr, "unmark: %s\n", err)
		return 1
	}
	if !ok {
		fmt.Fprintf(env.Stderr, "unmark: %s: no such bookmark\n", args[1])
		return 1
	}
	return 0
}

// Marks lists every bookmark in insertion order.
func Marks(args []string, ctl shell.Controller, env *shell.Env) int {
	for _, pair := range ctl.Bookmarks().List() {
		fmt.Fprintf(env.Stdout, "%s\t%s\n", pair.Alias, pair.Path)
	}
	return 0
}
