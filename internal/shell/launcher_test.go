package shell_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gYonder/tsh/internal/bookmark"
	"github.com/gYonder/tsh/internal/history"
	"github.com/gYonder/tsh/internal/jobtable"
	"github.com/gYonder/tsh/internal/shell"
)

// mockRegistry wires a couple of deterministic stand-ins for real builtins,
// the way the teacher's pipeline tests register mock-echo/mock-upper
// commands instead of depending on a real external binary.
func mockRegistry() shell.Registry {
	return shell.Registry{
		"mkecho": func(args []string, ctl shell.Controller, env *shell.Env) int {
			io.WriteString(env.Stdout, strings.Join(args[1:], " ")+"\n")
			return 0
		},
		"mkupper": func(args []string, ctl shell.Controller, env *shell.Env) int {
			buf, _ := io.ReadAll(env.Stdin)
			io.WriteString(env.Stdout, strings.ToUpper(string(buf)))
			return 0
		},
	}
}

func newTestLauncher(t *testing.T, stdout, stderr io.Writer) *shell.Launcher {
	t.Helper()
	jobs := jobtable.New(4)
	hist := history.New(4)
	marks := bookmark.New(filepath.Join(t.TempDir(), "bookmarks"))
	return shell.NewLauncher(jobs, hist, marks, mockRegistry(), stdout, stderr)
}

func plan(t *testing.T, line string) *shell.Pipeline {
	t.Helper()
	tokens, _ := shell.Tokenize(line)
	p, err := shell.PlanPipeline(tokens)
	require.NoError(t, err)
	return p
}

func TestLaunch_BuiltinHonorsOutputRedirection(t *testing.T) {
	var stdout bytes.Buffer
	l := newTestLauncher(t, &stdout, &stdout)

	outPath := filepath.Join(t.TempDir(), "out.txt")
	p := plan(t, "mkecho hello world > "+outPath)

	err := l.Launch(p, false, "mkecho hello world > "+outPath, nil)
	require.NoError(t, err)

	assert.Empty(t, stdout.String(), "builtin output must go to the redirected file, not the launcher's stdout")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(data))
}

func TestLaunch_BuiltinPipedIntoBuiltin(t *testing.T) {
	var stdout bytes.Buffer
	l := newTestLauncher(t, &stdout, &stdout)

	p := plan(t, "mkecho hello world | mkupper")

	err := l.Launch(p, false, "mkecho hello world | mkupper", nil)
	require.NoError(t, err)

	assert.Equal(t, "HELLO WORLD\n", stdout.String())
}

func TestLaunch_BuiltinPipeline_BackgroundIsRejected(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l := newTestLauncher(t, &stdout, &stderr)

	p := plan(t, "mkecho hi")

	err := l.Launch(p, true, "mkecho hi &", nil)
	require.NoError(t, err)
	assert.Empty(t, stdout.String(), "a backgrounded builtin must not run")
	assert.Empty(t, l.Jobs().Live(), "no job should be registered for a builtin pipeline")
}
