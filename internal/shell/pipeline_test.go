package shell_test

import (
	"strings"
	"testing"

	"github.com/gYonder/tsh/internal/shell"
)

func tokenize(t *testing.T, line string) []shell.Token {
	t.Helper()
	tokens, _ := shell.Tokenize(line)
	return tokens
}

func TestPlanPipeline_SingleCommand(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		args       []string
		inputFile  string
		outputFile string
	}{
		{
			name:  "simple command",
			input: "echo hello world",
			args:  []string{"echo", "hello", "world"},
		},
		{
			name:       "output redirect",
			input:      "echo hello > out.txt",
			args:       []string{"echo", "hello"},
			outputFile: "out.txt",
		},
		{
			name:      "input redirect",
			input:     "sort < input.txt",
			args:      []string{"sort"},
			inputFile: "input.txt",
		},
		{
			name:       "input and output redirect",
			input:      "sort < in.txt > out.txt",
			args:       []string{"sort"},
			inputFile:  "in.txt",
			outputFile: "out.txt",
		},
		{
			name:       "last redirect wins",
			input:      "cmd > a.txt > b.txt",
			args:       []string{"cmd"},
			outputFile: "b.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := shell.PlanPipeline(tokenize(t, tt.input))
			if err != nil {
				t.Fatalf("PlanPipeline(%q) error: %v", tt.input, err)
			}
			if len(plan.Segments) != 1 {
				t.Fatalf("got %d segments, want 1", len(plan.Segments))
			}
			seg := plan.Segments[0]
			if len(seg.Args) != len(tt.args) {
				t.Fatalf("Args = %v, want %v", seg.Args, tt.args)
			}
			for i, a := range seg.Args {
				if a != tt.args[i] {
					t.Errorf("Args[%d] = %q, want %q", i, a, tt.args[i])
				}
			}
			if seg.InputFile != tt.inputFile {
				t.Errorf("InputFile = %q, want %q", seg.InputFile, tt.inputFile)
			}
			if seg.OutputFile != tt.outputFile {
				t.Errorf("OutputFile = %q, want %q", seg.OutputFile, tt.outputFile)
			}
		})
	}
}

func TestPlanPipeline_MultipleSegments(t *testing.T) {
	plan, err := shell.PlanPipeline(tokenize(t, "cat file.txt | sort -r | uniq -c | head -n 10"))
	if err != nil {
		t.Fatalf("PlanPipeline error: %v", err)
	}
	want := [][]string{
		{"cat", "file.txt"},
		{"sort", "-r"},
		{"uniq", "-c"},
		{"head", "-n", "10"},
	}
	if len(plan.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(plan.Segments), len(want))
	}
	for i, seg := range plan.Segments {
		if len(seg.Args) != len(want[i]) {
			t.Fatalf("segment %d Args = %v, want %v", i, seg.Args, want[i])
		}
		for j, a := range seg.Args {
			if a != want[i][j] {
				t.Errorf("segment %d Args[%d] = %q, want %q", i, j, a, want[i][j])
			}
		}
	}
}

func TestPlanPipeline_PipeWithRedirection(t *testing.T) {
	plan, err := shell.PlanPipeline(tokenize(t, "sort < in.txt | uniq > out.txt"))
	if err != nil {
		t.Fatalf("PlanPipeline error: %v", err)
	}
	if len(plan.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(plan.Segments))
	}
	if plan.Segments[0].InputFile != "in.txt" {
		t.Errorf("first segment InputFile = %q, want in.txt", plan.Segments[0].InputFile)
	}
	if plan.Segments[1].OutputFile != "out.txt" {
		t.Errorf("last segment OutputFile = %q, want out.txt", plan.Segments[1].OutputFile)
	}
}

func TestPlanPipeline_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		errContains string
	}{
		{"missing output target", "echo hello >", "missing target"},
		{"missing input target", "sort <", "missing target"},
		{"empty segment between pipes", "cat file | | sort", "empty command"},
		{"empty input", "", "empty command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shell.PlanPipeline(tokenize(t, tt.input))
			if err == nil {
				t.Fatalf("PlanPipeline(%q) expected error, got nil", tt.input)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("PlanPipeline(%q) error = %q, want to contain %q", tt.input, err.Error(), tt.errContains)
			}
		})
	}
}
