// Package signals implements the shell's signal core (spec.md §4.6),
// a Go port of the original tsh's sigutil.c: SIGCHLD/SIGINT/SIGTSTP/SIGQUIT
// handling, a masked critical section around job-table mutation during
// fork, and process-group-wide delivery of interactive signals.
package signals

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gYonder/tsh/internal/diag"
)

// Reaper is called from the SIGCHLD handler for every child state change
// that Wait4/WNOHANG picks up. status is the raw wait status; the reaper
// decides whether it represents an exit, a signal-kill, or a stop and
// updates the job table accordingly.
type Reaper func(pid int, status syscall.WaitStatus)

// Core owns the signal handling goroutine and the mask used to block
// SIGCHLD delivery during the fork/job-table-registration critical
// section described in spec.md §9 (REDESIGN: the registration must
// complete before the launcher's own command ever gets to run, not
// unconditionally after process-substitution resolution).
type Core struct {
	reaper Reaper
	mu     sync.Mutex // serializes Block/Unblock with the handler goroutine
	sigs   chan os.Signal
	stop   chan struct{}
}

// New creates a signal core with the given reap callback. Install must be
// called to start listening.
func New(reaper Reaper) *Core {
	return &Core{
		reaper: reaper,
		sigs:   make(chan os.Signal, 32),
		stop:   make(chan struct{}),
	}
}

// Install starts the signal-handling goroutine, subscribing to SIGCHLD,
// SIGINT, SIGTSTP, and SIGQUIT, matching sigutil.c's bind_signal table.
func (c *Core) Install() {
	signal.Notify(c.sigs, syscall.SIGCHLD, syscall.SIGINT, syscall.SIGTSTP, syscall.SIGQUIT)
	go c.loop()
}

// Stop ends the signal-handling goroutine.
func (c *Core) Stop() {
	close(c.stop)
	signal.Stop(c.sigs)
}

func (c *Core) loop() {
	for {
		select {
		case <-c.stop:
			return
		case sig := <-c.sigs:
			switch sig {
			case syscall.SIGCHLD:
				c.reapAll()
			case syscall.SIGINT:
				ForwardToForeground(syscall.SIGINT)
			case syscall.SIGTSTP:
				ForwardToForeground(syscall.SIGTSTP)
			case syscall.SIGQUIT:
				fmt.Println("tsh: terminated by SIGQUIT")
				os.Exit(1)
			}
		}
	}
}

// reapAll drains every reapable child non-blocking (WNOHANG|WUNTRACED),
// mirroring the original sigchld_handler's while(waitpid(...) > 0) loop.
// A wait failure other than ECHILD is fatal.
func (c *Core) reapAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		var status syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &status, syscall.WNOHANG|syscall.WUNTRACED, nil)
		if err == syscall.ECHILD {
			return
		}
		if err != nil {
			diag.Fatalf("tsh: waitpid: %s", err)
		}
		if pid <= 0 {
			return
		}
		c.reaper(pid, status)
	}
}

// Block masks SIGCHLD for the duration of a fork + job-table insertion,
// the equivalent of the original's mask_signal(SIG_BLOCK, ...). Go's
// runtime doesn't expose pthread_sigmask directly for a single goroutine,
// so the mask here is cooperative: it takes the same lock reapAll takes,
// delaying delivery of an already-queued SIGCHLD until Unblock.
func (c *Core) Block() { c.mu.Lock() }

// Unblock releases the critical section started by Block.
func (c *Core) Unblock() { c.mu.Unlock() }

// foregroundPgid is the process group currently in the foreground, or 0
// if none. The launcher updates it around every foreground launch/wait.
var foregroundPgid atomic.Int32

// SetForeground records the pgid that interactive signals should be
// forwarded to. Pass 0 when no job is in the foreground (signals typed at
// the idle prompt are simply dropped, like the original's default case).
func SetForeground(pgid int) {
	foregroundPgid.Store(int32(pgid))
}

// ForwardToForeground sends sig to the foreground process group, mirroring
// send_signal(pid, sig) in sigutil.c. A no-op if no job is foreground.
func ForwardToForeground(sig syscall.Signal) {
	pgid := foregroundPgid.Load()
	if pgid == 0 {
		return
	}
	_ = syscall.Kill(-int(pgid), sig)
}
