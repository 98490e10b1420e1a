// Package jobtable implements the fixed-capacity job table from spec.md §4.5,
// grounded on the original tsh's job.c: a small linear-scan table keyed by
// pid, with monotonically-allocated job IDs that are recomputed to
// max(live jid)+1 after every deletion (I4 in spec.md §3).
package jobtable

import (
	"fmt"
	"io"
	"sort"

	"github.com/gYonder/tsh/internal/ui"
)

// State is a job's place in the job-control state machine.
type State int

const (
	// Undef marks an empty slot; never observed outside the table itself.
	Undef State = iota
	FG
	BG
	ST
)

func (s State) String() string {
	switch s {
	case FG:
		return "Foreground"
	case BG:
		return "Running"
	case ST:
		return "Stopped"
	default:
		return "Undef"
	}
}

// Job is one live entry: a process-group leader pid, its job-control state,
// and the original command line it was launched from.
type Job struct {
	Pid     int
	Jid     int
	State   State
	Cmdline string
}

// DefaultCapacity is the table's default fixed size (spec.md §3).
const DefaultCapacity = 16

// Table is the fixed-capacity job table. It is not safe for concurrent use
// by itself — callers (the REPL and the signal core) serialize access to it
// through the critical-section mask described in spec.md §4.6/§9.
type Table struct {
	jobs     []Job // zero-value Pid means an empty slot
	nextJid  int
	capacity int
}

// New creates a job table with the given capacity (spec.md default 16).
func New(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{
		jobs:     make([]Job, capacity),
		nextJid:  1,
		capacity: capacity,
	}
}

// Add registers a new job. Fails if pid < 1 or the table is full.
func (t *Table) Add(pid int, state State, cmdline string) (Job, error) {
	if pid < 1 {
		return Job{}, fmt.Errorf("jobtable: invalid pid %d", pid)
	}
	for i := range t.jobs {
		if t.jobs[i].Pid == 0 {
			t.jobs[i] = Job{Pid: pid, Jid: t.nextJid, State: state, Cmdline: cmdline}
			t.nextJid++
			return t.jobs[i], nil
		}
	}
	return Job{}, fmt.Errorf("jobtable: too many jobs")
}

// Delete removes the job with the given pid, recomputing nextJid to
// max(live jid)+1 per I4.
func (t *Table) Delete(pid int) bool {
	if pid < 1 {
		return false
	}
	for i := range t.jobs {
		if t.jobs[i].Pid == pid {
			t.jobs[i] = Job{}
			t.nextJid = t.maxJid() + 1
			return true
		}
	}
	return false
}

func (t *Table) maxJid() int {
	max := 0
	for _, j := range t.jobs {
		if j.Jid > max {
			max = j.Jid
		}
	}
	return max
}

// FGPid returns the pid of the unique foreground job, or 0 if none (I2).
func (t *Table) FGPid() int {
	for _, j := range t.jobs {
		if j.Pid != 0 && j.State == FG {
			return j.Pid
		}
	}
	return 0
}

// ByPid looks up a job by pid. ok is false on miss.
func (t *Table) ByPid(pid int) (Job, bool) {
	if pid < 1 {
		return Job{}, false
	}
	for _, j := range t.jobs {
		if j.Pid == pid {
			return j, true
		}
	}
	return Job{}, false
}

// ByJid looks up a job by jid. ok is false on miss.
func (t *Table) ByJid(jid int) (Job, bool) {
	if jid < 1 {
		return Job{}, false
	}
	for _, j := range t.jobs {
		if j.Jid == jid {
			return j, true
		}
	}
	return Job{}, false
}

// Pid2Jid maps a pid to its jid, or 0 if the pid isn't tracked.
func (t *Table) Pid2Jid(pid int) int {
	j, ok := t.ByPid(pid)
	if !ok {
		return 0
	}
	return j.Jid
}

// SetState updates the state of the job with the given pid, if present.
func (t *Table) SetState(pid int, state State) bool {
	for i := range t.jobs {
		if t.jobs[i].Pid == pid {
			t.jobs[i].State = state
			return true
		}
	}
	return false
}

// Live returns a snapshot of all live jobs ordered by jid, used by both the
// plain `jobs` builtin and the `jobs -i` monitor so neither ever reads the
// table's backing slice directly.
func (t *Table) Live() []Job {
	var out []Job
	for _, j := range t.jobs {
		if j.Pid != 0 {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Jid < out[k].Jid })
	return out
}

// List writes one line per live job to w: "[jid] (pid) <state> cmdline",
// matching spec.md §4.5 exactly (no color codes in this form — scripts and
// test harnesses compare it verbatim).
func (t *Table) List(w io.Writer) {
	for _, j := range t.Live() {
		fmt.Fprintf(w, "[%d] (%d) %-10s %s\n", j.Jid, j.Pid, j.State, j.Cmdline)
	}
}

// ListStyled writes the same line layout as List, but with the state word
// colored per internal/ui's job-state palette. The `jobs` builtin does not
// call it: plain `jobs` always prints through List.
func ListStyled(w io.Writer, jobs []Job) {
	for _, j := range jobs {
		style := ui.JobRunningStyle
		switch j.State {
		case FG:
			style = ui.JobForegroundStyle
		case ST:
			style = ui.JobStoppedStyle
		}
		fmt.Fprintf(w, "[%d] (%d) %-10s %s\n", j.Jid, j.Pid, style.Render(j.State.String()), j.Cmdline)
	}
}
