// Package shell implements the command language: tokenizing, pipeline
// planning, process-substitution resolution, and the process launcher and
// job-control machinery that execute a parsed line.
package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gYonder/tsh/internal/bookmark"
	"github.com/gYonder/tsh/internal/diag"
	"github.com/gYonder/tsh/internal/history"
	"github.com/gYonder/tsh/internal/jobtable"
	"github.com/gYonder/tsh/internal/signals"
)

// pipelineState tracks the member processes of one launched job until
// every one of them has been reaped. Go's os/exec model spawns each
// pipeline segment as its own process rather than the original's
// job-leader-forks-grandchildren scheme; this struct is the adaptation
// that lets the shell still observe "one job, one completion event"
// (spec.md §5) despite tracking N member pids instead of one.
type pipelineState struct {
	jid       int
	remaining map[int]bool
	exitOr    int
	retained  []*os.File // process-substitution fds to close once drained
	announced bool        // stop/terminate message already printed for this job
}

// Launcher owns the job table, the builtin registry, and every live
// pipeline's member-process bookkeeping. It implements Controller so
// builtins (cd, jobs, bg/fg, fc, mark/unmark) can reach job control
// without internal/builtin importing this package's internals.
type Launcher struct {
	jobs     *jobtable.Table
	hist     *history.Ring
	marks    *bookmark.Store
	builtins Registry
	sig      *signals.Core
	stdout   io.Writer
	stderr   io.Writer

	mu      sync.Mutex
	members map[int]int // member pid -> job leader pid
	states  map[int]*pipelineState
}

// NewLauncher wires a job table, history ring, bookmark store, and builtin
// registry into a launcher ready to run pipelines. SetSignalCore must be
// called once the signal core is constructed (it in turn needs the
// launcher's Reap method, so the two are built in two steps).
func NewLauncher(jobs *jobtable.Table, hist *history.Ring, marks *bookmark.Store, builtins Registry, stdout, stderr io.Writer) *Launcher {
	return &Launcher{
		jobs:     jobs,
		hist:     hist,
		marks:    marks,
		builtins: builtins,
		stdout:   stdout,
		stderr:   stderr,
		members:  make(map[int]int),
		states:   make(map[int]*pipelineState),
	}
}

// SetSignalCore binds the launcher to the signal core that masks SIGCHLD
// around fork/register windows.
func (l *Launcher) SetSignalCore(sig *signals.Core) { l.sig = sig }

func (l *Launcher) Jobs() *jobtable.Table        { return l.jobs }
func (l *Launcher) History() *history.Ring       { return l.hist }
func (l *Launcher) Bookmarks() *bookmark.Store   { return l.marks }

func (l *Launcher) Cwd() (string, error) { return os.Getwd() }
func (l *Launcher) Chdir(path string) error { return os.Chdir(path) }

// Execute tokenizes, resolves substitutions, plans, and launches one
// command line — the REPL's single entry point per evaluated line.
func (l *Launcher) Execute(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	tokens, background := Tokenize(line)
	if len(tokens) == 0 {
		return nil
	}

	resolved, retained, err := l.resolveSubstitutions(tokens)
	if err != nil {
		diag.Warnf("%s", err)
		return nil
	}

	plan, err := PlanPipeline(resolved)
	if err != nil {
		for _, f := range retained {
			f.Close()
		}
		diag.Warnf("%s", err)
		return nil
	}

	return l.Launch(plan, background, trimmed, retained)
}

// Launch runs a fully-planned pipeline (spec.md §4.4). retained is the set
// of process-substitution fds the shell must keep open at least until the
// job is reaped.
func (l *Launcher) Launch(plan *Pipeline, background bool, cmdline string, retained []*os.File) error {
	if l.planHasBuiltin(plan) {
		if background {
			for _, f := range retained {
				f.Close()
			}
			diag.Warnf("tsh: backgrounding a builtin is not supported")
			return nil
		}
		l.launchWithBuiltin(plan, retained)
		return nil
	}

	l.sig.Block()
	cmds, leaderPid, err := l.spawnPipeline(plan, os.Stdin, os.Stdout)
	if err != nil {
		l.sig.Unblock()
		for _, f := range retained {
			f.Close()
		}
		diag.Warnf("%s", err)
		return nil
	}

	state := jobtable.BG
	if !background {
		state = jobtable.FG
	}
	job, err := l.jobs.Add(leaderPid, state, cmdline)
	if err != nil {
		l.sig.Unblock()
		for _, c := range cmds {
			c.Process.Kill()
		}
		for _, f := range retained {
			f.Close()
		}
		diag.Warnf("%s", err)
		return nil
	}

	l.registerPending(job, cmds, retained)
	if !background {
		signals.SetForeground(job.Pid)
	}
	l.sig.Unblock()

	if background {
		fmt.Fprintf(l.stdout, "[%d] (%d) %s\n", job.Jid, job.Pid, cmdline)
		return nil
	}

	l.waitForeground(job.Pid)
	return nil
}

// planHasBuiltin reports whether any segment of plan names a registered
// builtin, regardless of its position in the pipeline.
func (l *Launcher) planHasBuiltin(plan *Pipeline) bool {
	for _, seg := range plan.Segments {
		if _, ok := l.builtins[seg.Args[0]]; ok {
			return true
		}
	}
	return false
}

// launchWithBuiltin runs a pipeline that has a builtin in at least one
// segment (spec.md §4.7: a builtin honors the caller-supplied I/O fds,
// including the adjacent pipe end when it sits on either side of a pipe).
// Builtins never fork, so a pipeline mixing them with external commands
// can't be put under job control; it always runs synchronously in the
// foreground, builtin segments executing inline against the same pipes and
// redirection files an external segment would have received.
func (l *Launcher) launchWithBuiltin(plan *Pipeline, retained []*os.File) {
	n := len(plan.Segments)
	var toClose []io.Closer
	closeAll := func() {
		for _, c := range toClose {
			c.Close()
		}
	}

	stdins := make([]io.Reader, n)
	stdouts := make([]io.Writer, n)
	stdins[0] = os.Stdin
	stdouts[n-1] = l.stdout

	pipeWriters := make([]*os.File, n)
	pipeReaders := make([]*os.File, n)
	for i := 0; i < n-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			closeAll()
			for _, f := range retained {
				f.Close()
			}
			diag.Warnf("pipe: %s", err)
			return
		}
		stdouts[i] = pw
		stdins[i+1] = pr
		pipeWriters[i] = pw
		pipeReaders[i+1] = pr
		toClose = append(toClose, pr)
	}

	for i, seg := range plan.Segments {
		if seg.InputFile != "" {
			f, err := openInput(seg.InputFile)
			if err != nil {
				closeAll()
				for _, f := range retained {
					f.Close()
				}
				diag.Warnf("%s: %s", seg.InputFile, err)
				return
			}
			toClose = append(toClose, f)
			stdins[i] = f
		}
		if seg.OutputFile != "" {
			f, err := openOutput(seg.OutputFile)
			if err != nil {
				closeAll()
				for _, f := range retained {
					f.Close()
				}
				diag.Warnf("%s: %s", seg.OutputFile, err)
				return
			}
			toClose = append(toClose, f)
			stdouts[i] = f
		}
	}

	var wg sync.WaitGroup
	cmds := make([]*exec.Cmd, n)
	var leaderPid int
	var spawnErr error

	for i, seg := range plan.Segments {
		if fn, ok := l.builtins[seg.Args[0]]; ok {
			wg.Add(1)
			idx := i
			env := &Env{Stdin: stdins[idx], Stdout: stdouts[idx], Stderr: l.stderr}
			go func() {
				defer wg.Done()
				fn(seg.Args, l, env)
				if pipeWriters[idx] != nil {
					pipeWriters[idx].Close()
				}
			}()
			continue
		}

		path, lookErr := exec.LookPath(seg.Args[0])
		if lookErr != nil {
			diag.CommandNotFound(l.stderr, seg.Args[0])
			spawnErr = fmt.Errorf("%s: command not found", seg.Args[0])
			break
		}

		cmd := exec.Command(path, seg.Args[1:]...)
		cmd.Stdin = stdins[i]
		cmd.Stdout = stdouts[i]
		cmd.Stderr = os.Stderr
		if leaderPid == 0 {
			cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		} else {
			cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: leaderPid}
		}

		if err := cmd.Start(); err != nil {
			diag.CommandNotFound(l.stderr, seg.Args[0])
			spawnErr = fmt.Errorf("%s: %w", seg.Args[0], err)
			break
		}
		cmds[i] = cmd
		if leaderPid == 0 {
			leaderPid = cmd.Process.Pid
		}
		if pw := pipeWriters[i]; pw != nil {
			pw.Close() // the child dup'd its own copy of the write end
		}
	}

	if spawnErr != nil {
		// Unblock any builtin goroutine already writing into a pipe whose
		// downstream reader never started: closing its read end here turns
		// the next write into an EPIPE instead of a permanent block.
		for _, pr := range pipeReaders {
			if pr != nil {
				pr.Close()
			}
		}
		for _, c := range cmds {
			if c != nil {
				c.Process.Kill()
			}
		}
	}

	wg.Wait()
	for _, c := range cmds {
		if c != nil {
			c.Wait()
		}
	}
	closeAll()
	for _, f := range retained {
		f.Close()
	}
}

// spawnDetached launches a pipeline that is not registered in the job
// table — used by process substitution, whose inner pipelines aren't
// things a user can bg/fg.
func (l *Launcher) spawnDetached(plan *Pipeline, dir TokenType, end *os.File) (int, error) {
	var stdin io.Reader = os.Stdin
	var stdout io.Writer = os.Stdout
	if dir == TokenSubIn {
		stdout = end
	} else {
		stdin = end
	}
	cmds, leaderPid, err := l.spawnPipeline(plan, stdin, stdout)
	if err != nil {
		return 0, err
	}
	go l.reapDetached(cmds)
	return leaderPid, nil
}

// reapDetached waits out an untracked substitution pipeline off the main
// goroutine so it doesn't block command launch.
func (l *Launcher) reapDetached(cmds []*exec.Cmd) {
	for _, c := range cmds {
		c.Wait()
	}
}

// spawnPipeline starts every segment of plan as its own process in a
// shared process group (the first segment's pid is the group leader),
// wiring pipes between adjacent segments and applying each segment's
// redirections. defaultStdin/defaultStdout are used for the first
// segment's stdin and the last segment's stdout when no redirection
// overrides them.
func (l *Launcher) spawnPipeline(plan *Pipeline, defaultStdin io.Reader, defaultStdout io.Writer) ([]*exec.Cmd, int, error) {
	n := len(plan.Segments)
	cmds := make([]*exec.Cmd, n)
	var toClose []io.Closer

	cleanup := func() {
		for _, c := range toClose {
			c.Close()
		}
	}

	stdins := make([]io.Reader, n)
	stdouts := make([]io.Writer, n)
	stdins[0] = defaultStdin
	stdouts[n-1] = defaultStdout

	for i := 0; i < n-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			cleanup()
			return nil, 0, fmt.Errorf("pipe: %w", err)
		}
		toClose = append(toClose, pr, pw)
		stdouts[i] = pw
		stdins[i+1] = pr
	}

	for i, seg := range plan.Segments {
		if seg.InputFile != "" {
			f, err := openInput(seg.InputFile)
			if err != nil {
				cleanup()
				return nil, 0, fmt.Errorf("%s: %w", seg.InputFile, err)
			}
			toClose = append(toClose, f)
			stdins[i] = f
		}
		if seg.OutputFile != "" {
			f, err := openOutput(seg.OutputFile)
			if err != nil {
				cleanup()
				return nil, 0, fmt.Errorf("%s: %w", seg.OutputFile, err)
			}
			toClose = append(toClose, f)
			stdouts[i] = f
		}
	}

	var leaderPid int
	for i, seg := range plan.Segments {
		path, lookErr := exec.LookPath(seg.Args[0])
		if lookErr != nil {
			cleanup()
			diag.CommandNotFound(l.stderr, seg.Args[0])
			return nil, 0, fmt.Errorf("%s: command not found", seg.Args[0])
		}

		cmd := exec.Command(path, seg.Args[1:]...)
		cmd.Stdin = stdins[i]
		cmd.Stdout = stdouts[i]
		cmd.Stderr = os.Stderr
		if i == 0 {
			cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		} else {
			cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: leaderPid}
		}

		if err := cmd.Start(); err != nil {
			cleanup()
			for _, started := range cmds[:i] {
				if started != nil {
					started.Process.Kill()
				}
			}
			diag.CommandNotFound(l.stderr, seg.Args[0])
			return nil, 0, fmt.Errorf("%s: %w", seg.Args[0], err)
		}
		cmds[i] = cmd
		if i == 0 {
			leaderPid = cmd.Process.Pid
		}
	}

	cleanup()
	return cmds, leaderPid, nil
}

// registerPending records a job's member pids so the signal core's reaper
// can fold their statuses together and only remove the job once every
// member has exited.
func (l *Launcher) registerPending(job jobtable.Job, cmds []*exec.Cmd, retained []*os.File) {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := make(map[int]bool, len(cmds))
	for _, c := range cmds {
		pid := c.Process.Pid
		remaining[pid] = true
		l.members[pid] = job.Pid
	}
	l.states[job.Pid] = &pipelineState{jid: job.Jid, remaining: remaining, retained: retained}
}

// waitForeground is the REPL's cooperative sleep loop (spec.md §4.4 step
// 5, §5): it never calls wait/waitpid itself, only polls fgpid().
func (l *Launcher) waitForeground(pid int) {
	for l.jobs.FGPid() == pid {
		time.Sleep(20 * time.Millisecond)
	}
	signals.SetForeground(0)
}

// Reap is the signal core's child-exit callback (spec.md §4.6). It never
// blocks: it is only ever called with a pid/status already reaped
// non-blockingly by the signal core's Wait4(WNOHANG|WUNTRACED) loop.
func (l *Launcher) Reap(pid int, status syscall.WaitStatus) {
	l.mu.Lock()
	leaderPid, tracked := l.members[pid]
	if !tracked {
		l.mu.Unlock()
		return
	}
	state := l.states[leaderPid]
	if state == nil {
		l.mu.Unlock()
		return
	}

	switch {
	case status.Stopped():
		if !state.announced {
			state.announced = true
			l.jobs.SetState(leaderPid, jobtable.ST)
			fmt.Fprintf(l.stdout, "Job [%d] (%d) stopped by signal %d\n", state.jid, leaderPid, status.StopSignal())
		}
		l.mu.Unlock()
		return

	case status.Exited():
		delete(l.members, pid)
		delete(state.remaining, pid)
		state.exitOr |= status.ExitStatus()

	case status.Signaled():
		delete(l.members, pid)
		delete(state.remaining, pid)
		state.exitOr |= 128 + int(status.Signal())
		if status.Signal() == syscall.SIGINT && !state.announced {
			state.announced = true
			fmt.Fprintf(l.stdout, "Jobs [%d] (%d) terminated by signal %d\n", state.jid, leaderPid, status.Signal())
		}
	}

	done := len(state.remaining) == 0
	if done {
		delete(l.states, leaderPid)
	}
	l.mu.Unlock()

	if done {
		l.jobs.Delete(leaderPid)
		for _, f := range state.retained {
			f.Close()
		}
	}
}

// ResumeJob implements bg/fg: send SIGCONT to the job's process group and
// either announce it (background) or wait for it (foreground).
func (l *Launcher) ResumeJob(target string, foreground bool) error {
	job, err := l.resolveJobTarget(target)
	if err != nil {
		return err
	}

	if err := syscall.Kill(-job.Pid, syscall.SIGCONT); err != nil {
		return fmt.Errorf("%s: %w", target, err)
	}

	if foreground {
		l.jobs.SetState(job.Pid, jobtable.FG)
		signals.SetForeground(job.Pid)
		l.waitForeground(job.Pid)
		return nil
	}

	l.jobs.SetState(job.Pid, jobtable.BG)
	fmt.Fprintf(l.stdout, "[%d] (%d) %s\n", job.Jid, job.Pid, job.Cmdline)
	return nil
}

func (l *Launcher) resolveJobTarget(target string) (jobtable.Job, error) {
	if strings.HasPrefix(target, "%") {
		jid, err := parsePositiveInt(target[1:])
		if err != nil {
			return jobtable.Job{}, fmt.Errorf("%s: bad job spec", target)
		}
		job, ok := l.jobs.ByJid(jid)
		if !ok {
			return jobtable.Job{}, fmt.Errorf("%s: No such job", target)
		}
		return job, nil
	}
	pid, err := parsePositiveInt(target)
	if err != nil {
		return jobtable.Job{}, fmt.Errorf("%s: argument must be a PID or %%jobid", target)
	}
	job, ok := l.jobs.ByPid(pid)
	if !ok {
		return jobtable.Job{}, fmt.Errorf("%s: No such job", target)
	}
	return job, nil
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number")
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// ListJobsDetailed implements `jobs -l`: the plain job-table listing
// enriched with CPU/RSS via the gopsutil-backed lookup in jobstats.go.
func (l *Launcher) ListJobsDetailed(w io.Writer) error {
	return listJobsWithStats(w, l.jobs.Live())
}

// OpenJobMonitor implements `jobs -i`: the bubbletea read-only live view.
func (l *Launcher) OpenJobMonitor() error {
	return openJobMonitor(l.jobs)
}

