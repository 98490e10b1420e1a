package ui

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// SyntaxTheme returns the appropriate chroma style based on terminal background
func SyntaxTheme() string {
	if lipgloss.HasDarkBackground() {
		return "dracula"
	}
	return "github"
}

// HighlightLine renders a single command line through chroma's bash lexer,
// used by the REPL driver to echo a script line before evaluation. Returns
// the original line unchanged if no lexer or formatter is available.
func HighlightLine(line string) string {
	lexer := lexers.Get("bash")
	if lexer == nil {
		return line
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(SyntaxTheme())
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	buf := new(bytes.Buffer)
	if err := formatter.Format(buf, style, iterator); err != nil {
		return line
	}
	return buf.String()
}
