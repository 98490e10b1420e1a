package shell

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/chzyer/readline"
	"github.com/sahilm/fuzzy"
)

// completer provides interactive tab completion: fuzzy-ranked builtin and
// PATH command names for the first word, real filesystem entries
// (via doublestar's glob matching, restricted to completion — the parser
// itself never expands a glob, per spec.md's Non-goals) for every word
// after that.
type completer struct {
	launcher *Launcher
}

// NewCompleter builds a readline.AutoCompleter backed by launcher's
// builtin registry and the real filesystem.
func NewCompleter(launcher *Launcher) readline.AutoCompleter {
	return &completer{launcher: launcher}
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	lineStr := string(line[:pos])
	words := strings.Fields(lineStr)

	onFirstWord := len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(lineStr, " "))
	if onFirstWord {
		prefix := ""
		if len(words) == 1 {
			prefix = words[0]
		}
		return c.completeCommand(prefix)
	}

	lastSpace := strings.LastIndex(lineStr, " ")
	partial := ""
	if lastSpace < len(lineStr)-1 {
		partial = lineStr[lastSpace+1:]
	}
	return c.completePath(partial)
}

func (c *completer) completeCommand(prefix string) ([][]rune, int) {
	candidates := make([]string, 0, len(c.launcher.builtins)+64)
	for name := range c.launcher.builtins {
		candidates = append(candidates, name)
	}
	for _, dir := range strings.Split(os.Getenv("PATH"), string(os.PathListSeparator)) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				candidates = append(candidates, e.Name())
			}
		}
	}

	if prefix == "" {
		sort.Strings(candidates)
		return toSuffixes(candidates, ""), 0
	}

	matches := fuzzy.Find(prefix, candidates)
	sort.Sort(matches)
	seen := make(map[string]bool, len(matches))
	var ranked []string
	for _, m := range matches {
		if !seen[m.Str] {
			seen[m.Str] = true
			ranked = append(ranked, m.Str)
		}
	}
	return toSuffixes(ranked, prefix), len(prefix)
}

func (c *completer) completePath(partial string) ([][]rune, int) {
	dir := "."
	prefix := partial
	if idx := strings.LastIndex(partial, "/"); idx >= 0 {
		dir = partial[:idx+1]
		if dir == "" {
			dir = "/"
		}
		prefix = partial[idx+1:]
	}

	pattern := filepath.Join(dir, prefix+"*")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, 0
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return toSuffixes(names, prefix), len(prefix)
}

func toSuffixes(candidates []string, prefix string) [][]rune {
	out := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		if !strings.HasPrefix(cand, prefix) {
			continue
		}
		suffix := cand[len(prefix):]
		if !strings.HasSuffix(suffix, "/") {
			suffix += " "
		}
		out = append(out, []rune(suffix))
	}
	return out
}
