package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gYonder/tsh/internal/history"
)

func TestAppendAndLast(t *testing.T) {
	r := history.New(4)
	r.Append("echo one")
	r.Append("echo two")
	r.Append("echo three")

	line, ok := r.Last(1)
	require.True(t, ok)
	assert.Equal(t, "echo three", line)

	line, ok = r.Last(2)
	require.True(t, ok)
	assert.Equal(t, "echo two", line)

	_, ok = r.Last(0)
	assert.False(t, ok)

	_, ok = r.Last(4)
	assert.False(t, ok)
}

func TestLen(t *testing.T) {
	r := history.New(2)
	assert.Equal(t, 0, r.Len())
	r.Append("a")
	assert.Equal(t, 1, r.Len())
	r.Append("b")
	assert.Equal(t, 2, r.Len())
	r.Append("c") // evicts "a"
	assert.Equal(t, 2, r.Len())
}

func TestEvictionWrapsOldestOut(t *testing.T) {
	r := history.New(2)
	r.Append("a")
	r.Append("b")
	r.Append("c")

	// "a" has aged out; absolute entry 1 is gone, only 2 and 3 remain.
	_, ok := r.Number(1)
	assert.False(t, ok)

	line, ok := r.Number(2)
	require.True(t, ok)
	assert.Equal(t, "b", line)

	line, ok = r.Number(3)
	require.True(t, ok)
	assert.Equal(t, "c", line)
}

func TestCurrentTracksAbsoluteTotal(t *testing.T) {
	r := history.New(2)
	assert.Equal(t, 0, r.Current())
	r.Append("a")
	r.Append("b")
	r.Append("c")
	assert.Equal(t, 3, r.Current())
}

func TestRange(t *testing.T) {
	r := history.New(10)
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		r.Append(l)
	}

	entries := r.Range(2, 4)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].Line)
	assert.Equal(t, "c", entries[1].Line)
	assert.Equal(t, "d", entries[2].Line)
}

func TestRange_ClampsToRetainedWindow(t *testing.T) {
	r := history.New(2)
	r.Append("a")
	r.Append("b")
	r.Append("c") // "a" evicted, retains 2("b") and 3("c")

	entries := r.Range(1, 3)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Line)
	assert.Equal(t, "c", entries[1].Line)
}

func TestAll_OldestFirst(t *testing.T) {
	r := history.New(3)
	r.Append("x")
	r.Append("y")
	entries := r.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[0].Line)
	assert.Equal(t, "y", entries[1].Line)
}

func TestEntryString(t *testing.T) {
	e := history.Entry{Number: 7, Line: "ls -la"}
	assert.Equal(t, "    7\tls -la", e.String())
}
