package shell_test

import (
	"testing"

	"github.com/gYonder/tsh/internal/shell"
)

func TestTokenize_BasicCommands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []shell.Token
	}{
		{
			name:  "simple command",
			input: "echo hello",
			expected: []shell.Token{
				{Value: "echo", Type: shell.TokenWord},
				{Value: "hello", Type: shell.TokenWord},
			},
		},
		{
			name:  "command with multiple args",
			input: "ls -la /path/to/dir",
			expected: []shell.Token{
				{Value: "ls", Type: shell.TokenWord},
				{Value: "-la", Type: shell.TokenWord},
				{Value: "/path/to/dir", Type: shell.TokenWord},
			},
		},
		{
			name:  "tabs between words",
			input: "echo\thello\tworld",
			expected: []shell.Token{
				{Value: "echo", Type: shell.TokenWord},
				{Value: "hello", Type: shell.TokenWord},
				{Value: "world", Type: shell.TokenWord},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := shell.Tokenize(tt.input)
			if len(tokens) != len(tt.expected) {
				t.Fatalf("Tokenize(%q) got %d tokens, want %d\nGot: %+v", tt.input, len(tokens), len(tt.expected), tokens)
			}
			for i, tok := range tokens {
				if tok.Value != tt.expected[i].Value || tok.Type != tt.expected[i].Type {
					t.Errorf("Token[%d] = {%q, %v}, want {%q, %v}",
						i, tok.Value, tok.Type, tt.expected[i].Value, tt.expected[i].Type)
				}
			}
		})
	}
}

func TestTokenize_Pipes(t *testing.T) {
	tokens, _ := shell.Tokenize("cat file|sort")
	expected := []shell.Token{
		{Value: "cat", Type: shell.TokenWord},
		{Value: "file", Type: shell.TokenWord},
		{Value: "|", Type: shell.TokenPipe},
		{Value: "sort", Type: shell.TokenWord},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		if tok != expected[i] {
			t.Errorf("Token[%d] = %+v, want %+v", i, tok, expected[i])
		}
	}
}

func TestTokenize_Redirections(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []shell.Token
	}{
		{
			name:  "output redirect without spaces",
			input: "echo hello>file.txt",
			expected: []shell.Token{
				{Value: "echo", Type: shell.TokenWord},
				{Value: "hello", Type: shell.TokenWord},
				{Value: ">", Type: shell.TokenRedirOut},
				{Value: "file.txt", Type: shell.TokenWord},
			},
		},
		{
			name:  "input redirect",
			input: "sort < file.txt",
			expected: []shell.Token{
				{Value: "sort", Type: shell.TokenWord},
				{Value: "<", Type: shell.TokenRedirIn},
				{Value: "file.txt", Type: shell.TokenWord},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := shell.Tokenize(tt.input)
			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(tt.expected), tokens)
			}
			for i, tok := range tokens {
				if tok != tt.expected[i] {
					t.Errorf("Token[%d] = %+v, want %+v", i, tok, tt.expected[i])
				}
			}
		})
	}
}

func TestTokenize_ProcessSubstitution(t *testing.T) {
	tokens, _ := shell.Tokenize("diff <(sort a) <(sort b)")
	expected := []shell.Token{
		{Value: "diff", Type: shell.TokenWord},
		{Value: "<(", Type: shell.TokenSubIn},
		{Value: "sort", Type: shell.TokenWord},
		{Value: "a", Type: shell.TokenWord},
		{Value: ")", Type: shell.TokenSubEnd},
		{Value: "<(", Type: shell.TokenSubIn},
		{Value: "sort", Type: shell.TokenWord},
		{Value: "b", Type: shell.TokenWord},
		{Value: ")", Type: shell.TokenSubEnd},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		if tok != expected[i] {
			t.Errorf("Token[%d] = %+v, want %+v", i, tok, expected[i])
		}
	}
}

func TestTokenize_OutputSubstitution(t *testing.T) {
	tokens, _ := shell.Tokenize("tee >(wc -l)")
	expected := []shell.Token{
		{Value: "tee", Type: shell.TokenWord},
		{Value: ">(", Type: shell.TokenSubOut},
		{Value: "wc", Type: shell.TokenWord},
		{Value: "-l", Type: shell.TokenWord},
		{Value: ")", Type: shell.TokenSubEnd},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		if tok != expected[i] {
			t.Errorf("Token[%d] = %+v, want %+v", i, tok, expected[i])
		}
	}
}

func TestTokenize_TrailingBackground(t *testing.T) {
	tokens, bg := shell.Tokenize("sleep 10 &")
	if !bg {
		t.Fatalf("expected background flag to be true")
	}
	expected := []shell.Token{
		{Value: "sleep", Type: shell.TokenWord},
		{Value: "10", Type: shell.TokenWord},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		if tok != expected[i] {
			t.Errorf("Token[%d] = %+v, want %+v", i, tok, expected[i])
		}
	}
}

func TestTokenize_NoTrailingBackground(t *testing.T) {
	_, bg := shell.Tokenize("echo hello")
	if bg {
		t.Fatalf("expected background flag to be false")
	}
}

func TestSplitByPipe(t *testing.T) {
	tokens, _ := shell.Tokenize("cat file | sort | uniq")
	segments := shell.SplitByPipe(tokens)
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	if len(segments[0]) != 2 || segments[0][0].Value != "cat" || segments[0][1].Value != "file" {
		t.Errorf("segment 0 = %+v", segments[0])
	}
	if len(segments[1]) != 1 || segments[1][0].Value != "sort" {
		t.Errorf("segment 1 = %+v", segments[1])
	}
	if len(segments[2]) != 1 || segments[2][0].Value != "uniq" {
		t.Errorf("segment 2 = %+v", segments[2])
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	tests := []string{"", "   ", "\t\t", "  \t  \t  "}
	for _, input := range tests {
		tokens, bg := shell.Tokenize(input)
		if len(tokens) != 0 {
			t.Errorf("Tokenize(%q) = %+v, want empty", input, tokens)
		}
		if bg {
			t.Errorf("Tokenize(%q) background = true, want false", input)
		}
	}
}
