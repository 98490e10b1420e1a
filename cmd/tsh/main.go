package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gYonder/tsh/internal/bookmark"
	"github.com/gYonder/tsh/internal/builtin"
	"github.com/gYonder/tsh/internal/config"
	"github.com/gYonder/tsh/internal/diag"
	"github.com/gYonder/tsh/internal/history"
	"github.com/gYonder/tsh/internal/jobtable"
	"github.com/gYonder/tsh/internal/shell"
	"github.com/gYonder/tsh/internal/signals"
)

func main() {
	os.Exit(run())
}

func run() int {
	help := pflag.BoolP("help", "h", false, "print usage and exit")
	noPrompt := pflag.BoolP("no-prompt", "p", false, "disable the prompt (for automated testing)")
	pflag.Parse()

	if *help {
		usage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		diag.Fatalf("tsh: %s", err)
	}

	jobs := jobtable.New(cfg.JobTableSize)
	hist := history.New(cfg.HistorySize)
	marks := bookmark.New(cfg.BookmarkFilePath())
	if err := marks.Load(); err != nil {
		diag.Warnf("tsh: bookmarks: %s", err)
	}

	launcher := shell.NewLauncher(jobs, hist, marks, builtin.Registry(), os.Stdout, os.Stderr)

	sigCore := signals.New(launcher.Reap)
	launcher.SetSignalCore(sigCore)
	sigCore.Install()
	defer sigCore.Stop()

	args := pflag.Args()
	if len(args) > 0 {
		f, err := shell.OpenScript(args[0])
		if err != nil {
			diag.Fatalf("tsh: %s: %s", args[0], err)
		}
		defer f.Close()
		repl := shell.NewScript(launcher, f, !*noPrompt)
		return repl.Run()
	}

	historyFile, _ := config.HistoryPath()
	repl, err := shell.NewInteractive(launcher, historyFile, !*noPrompt)
	if err != nil {
		diag.Fatalf("tsh: %s", err)
	}
	return repl.Run()
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tsh [-h] [-p] [script]")
	fmt.Fprintln(os.Stderr, "  -h  print this message and exit")
	fmt.Fprintln(os.Stderr, "  -p  disable the prompt (for automated testing)")
}
