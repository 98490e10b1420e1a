package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/term"

	"github.com/gYonder/tsh/internal/ui"
)

// REPL drives the read-eval-print loop (spec.md §4.8): reading lines from
// a terminal or a script, expanding `!n`/`!!`/`!-n` history references,
// dispatching to the launcher, and appending every successful non-`fc`
// line to the history ring.
type REPL struct {
	Launcher *Launcher
	Prompt   bool // false under `-p`: no prompt is printed

	rl     *readline.Instance
	script *bufio.Scanner
	interactive bool
}

// NewInteractive builds a REPL reading from a readline-backed terminal,
// with tab completion and a persisted line-history file.
func NewInteractive(launcher *Launcher, historyFile string, prompt bool) (*REPL, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:       historyFile,
		HistorySearchFold: true,
		AutoComplete:      NewCompleter(launcher),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	})
	if err != nil {
		return nil, err
	}
	return &REPL{Launcher: launcher, Prompt: prompt, rl: rl, interactive: true}, nil
}

// NewScript builds a REPL reading lines from r (a script file), echoing
// each line (syntax-highlighted) before evaluating it.
func NewScript(launcher *Launcher, r io.Reader, prompt bool) *REPL {
	return &REPL{Launcher: launcher, Prompt: prompt, script: bufio.NewScanner(r)}
}

// OpenScript opens path as a command-line source, rejecting anything that
// doesn't sniff as text (a binary passed by mistake) before the REPL ever
// tries to tokenize its bytes as shell syntax.
func OpenScript(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot open script: %w", err)
	}
	if !strings.HasPrefix(mime.String(), "text/") {
		f.Close()
		return nil, fmt.Errorf("cannot open script: not a text file (detected %s)", mime.String())
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot open script: %w", err)
	}
	return f, nil
}

// Run reads and evaluates lines until EOF, returning the shell's exit
// status: 0 on clean EOF (spec.md §6).
func (r *REPL) Run() int {
	if r.interactive {
		defer r.rl.Close()
	}

	for {
		line, ok := r.readLine()
		if !ok {
			return 0
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		isFc := strings.HasPrefix(trimmed, "fc") && (trimmed == "fc" || trimmed[2] == ' ')
		if strings.HasPrefix(trimmed, "!") && len(trimmed) > 1 {
			expanded, err := r.expandHistory(trimmed)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tsh: %v\n", err)
				continue
			}
			trimmed = expanded
			fmt.Println(trimmed)
		}

		if err := r.Launcher.Execute(trimmed); err != nil {
			fmt.Fprintf(os.Stderr, "tsh: %v\n", err)
		}

		if !isFc {
			r.Launcher.hist.Append(trimmed)
		}
	}
}

// readLine reads and, in script mode, echoes one line. ok is false at EOF.
func (r *REPL) readLine() (string, bool) {
	if r.interactive {
		if r.Prompt {
			cwd, err := os.Getwd()
			if err != nil {
				cwd = "?"
			}
			r.rl.SetPrompt(ui.RenderPrompt(cwd))
		}
		line, err := r.rl.Readline()
		if err != nil {
			return "", false
		}
		return line, true
	}

	if !r.script.Scan() {
		return "", false
	}
	line := r.script.Text()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(ui.HighlightLine(line))
	} else {
		fmt.Println(line)
	}
	return line, true
}

// expandHistory resolves `!!`, `!-n`, `!n`, and `!prefix` against the
// history ring.
func (r *REPL) expandHistory(token string) (string, error) {
	hist := r.Launcher.hist

	if token == "!!" {
		line, ok := hist.Last(1)
		if !ok {
			return "", fmt.Errorf("!!: event not found")
		}
		return line, nil
	}

	if strings.HasPrefix(token, "!-") {
		n, err := strconv.Atoi(token[2:])
		if err != nil || n < 1 {
			return "", fmt.Errorf("%s: event not found", token)
		}
		line, ok := hist.Last(n)
		if !ok {
			return "", fmt.Errorf("%s: event not found", token)
		}
		return line, nil
	}

	rest := token[1:]
	if n, err := strconv.Atoi(rest); err == nil {
		line, ok := hist.Number(n)
		if !ok {
			return "", fmt.Errorf("!%d: event not found", n)
		}
		return line, nil
	}

	entries := hist.All()
	for i := len(entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(entries[i].Line, rest) {
			return entries[i].Line, nil
		}
	}
	return "", fmt.Errorf("!%s: event not found", rest)
}
