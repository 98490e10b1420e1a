package shell

import (
	"fmt"
	"io"
	"time"

	gopsprocess "github.com/shirou/gopsutil/v3/process"

	"github.com/gYonder/tsh/internal/jobtable"
	"github.com/gYonder/tsh/internal/ui"
)

// listJobsWithStats implements `jobs -l`: the plain job-table listing
// enriched with each leader's CPU percent and resident set size via
// gopsutil, since a bare pid/state line doesn't tell a user which
// background job is actually burning CPU.
func listJobsWithStats(w io.Writer, jobs []jobtable.Job) error {
	t := ui.NewTable(w)
	t.SetHeaders("JID", "PID", "STATE", "CPU", "RSS", "CMDLINE")
	for _, j := range jobs {
		cpu, rss := "?", "?"
		if p, err := gopsprocess.NewProcess(int32(j.Pid)); err == nil {
			if pct, err := p.CPUPercent(); err == nil {
				cpu = fmt.Sprintf("%.1f%%", pct)
			}
			if mem, err := p.MemoryInfo(); err == nil && mem != nil {
				rss = ui.FormatSize(int64(mem.RSS))
			}
		}
		t.AddRow(fmt.Sprintf("%d", j.Jid), fmt.Sprintf("%d", j.Pid), j.State.String(), cpu, rss, j.Cmdline)
	}
	t.Render()
	return nil
}

// openJobMonitor implements `jobs -i`: the bubbletea read-only live view,
// polling the job table every 500ms.
func openJobMonitor(jobs *jobtable.Table) error {
	snapshot := func() []ui.JobRow {
		live := jobs.Live()
		rows := make([]ui.JobRow, len(live))
		for i, j := range live {
			rows[i] = ui.JobRow{Jid: j.Jid, Pid: j.Pid, State: j.State.String(), Cmdline: j.Cmdline}
		}
		return rows
	}
	return ui.RunJobMonitor(snapshot, 500*time.Millisecond)
}
