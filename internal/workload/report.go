package workload

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	arena "github.com/pavanmanishd/stackarena"
)

// Report summarizes one run.
type Report struct {
	Requested int           // operations asked for
	Applied   int           // operations that changed the list
	Skipped   int           // removals drawn while the list was empty
	Counts    [numOps]int   // applied operations by kind
	Exhausted bool          // the run stopped on a full arena
	Len       int           // final list length
	Checksum  int64         // sum of Value over the final list
	Elapsed   time.Duration
	Metrics   arena.Metrics // arena state at the end of the run
}

// Render writes the report as two tables: operations, then arena state.
func (r Report) Render(w io.Writer) {
	ops := tablewriter.NewWriter(w)
	ops.SetHeader([]string{"Operation", "Applied"})
	ops.SetAlignment(tablewriter.ALIGN_LEFT)
	for op := Op(0); op < numOps; op++ {
		ops.Append([]string{op.String(), fmt.Sprint(r.Counts[op])})
	}
	ops.SetFooter([]string{"total", fmt.Sprintf("%d of %d", r.Applied, r.Requested)})
	ops.Render()

	status := "completed"
	if r.Exhausted {
		status = "arena exhausted"
	}
	m := r.Metrics
	stats := tablewriter.NewWriter(w)
	stats.SetHeader([]string{"Arena", "Value"})
	stats.SetAlignment(tablewriter.ALIGN_LEFT)
	stats.AppendBulk([][]string{
		{"status", status},
		{"list length", fmt.Sprint(r.Len)},
		{"skipped", fmt.Sprint(r.Skipped)},
		{"capacity", fmt.Sprintf("%d B", m.Capacity)},
		{"used", fmt.Sprintf("%d B", m.Used)},
		{"remaining", fmt.Sprintf("%d B", m.Remaining)},
		{"abandoned", fmt.Sprintf("%d B", m.Abandoned)},
		{"utilization", fmt.Sprintf("%.1f%%", m.Utilization*100)},
		{"allocations", fmt.Sprint(m.Allocations)},
		{"failures", fmt.Sprint(m.Failures)},
		{"elapsed", r.Elapsed.Round(time.Microsecond).String()},
	})
	stats.Render()
}
