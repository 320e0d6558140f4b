package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Print renders a human-readable summary of the report.
func Print(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Organization: %s\n", r.Organization)

	if r.Sections.Resources || r.Sections.Applies {
		printApplies(w, r)
		fmt.Fprintf(w, "Total resources across all workspaces: %d\n", r.Totals.ResourceCount)
	}
	if r.Sections.Queue {
		printQueue(w, r)
		fmt.Fprintf(w, "Overall average queue time: %.2f seconds\n", r.Totals.Queue.Average())
	}
	if len(r.Failures) > 0 {
		fmt.Fprintf(w, "%s %d workspace(s) skipped due to errors:\n", text.FgRed.Sprint("Warning:"), len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s (%s): %s\n", f.WorkspaceName, f.WorkspaceID, f.Err)
		}
	}
}

func printApplies(w io.Writer, r *Report) {
	months := r.Window.Distinct()

	header := table.Row{"Workspace"}
	if r.Sections.Resources {
		header = append(header, "Resources")
	}
	if r.Sections.Applies {
		for _, k := range months {
			header = append(header, k.String())
		}
	}

	row := func(name string, resources int, get func(int) int) table.Row {
		row := table.Row{name}
		if r.Sections.Resources {
			row = append(row, resources)
		}
		if r.Sections.Applies {
			for i := range months {
				row = append(row, get(i))
			}
		}
		return row
	}

	tw := newTable(w)
	tw.SetTitle("Resources and applies per month")
	tw.AppendHeader(header)
	for _, ws := range r.Workspaces {
		tw.AppendRow(row(ws.Name, ws.ResourceCount, func(i int) int { return ws.Applies.Get(months[i]) }))
	}
	tw.AppendFooter(row("Total", r.Totals.ResourceCount, func(i int) int { return r.Totals.Applies.Get(months[i]) }))
	tw.Render()
}

func printQueue(w io.Writer, r *Report) {
	tw := newTable(w)
	tw.SetTitle("Run queue statistics")
	tw.AppendHeader(table.Row{"Workspace", "Total runs", "Queued runs", "Average queue time (s)"})
	for _, ws := range r.Workspaces {
		tw.AppendRow(table.Row{ws.Name, ws.Queue.TotalRuns, ws.Queue.QueuedRuns, formatSeconds(ws.Queue.Average())})
	}
	tw.AppendFooter(table.Row{"Overall", r.Totals.Queue.TotalRuns, r.Totals.Queue.QueuedRuns, formatSeconds(r.Totals.Queue.Average())})
	tw.Render()

	if len(r.Totals.QueueByMonth) == 0 {
		return
	}
	tw = newTable(w)
	tw.SetTitle("Run queue statistics per month")
	tw.AppendHeader(table.Row{"Month", "Total runs", "Queued runs", "Average queue time (s)"})
	for _, k := range r.Window.Distinct() {
		stats, ok := r.Totals.QueueByMonth[k]
		if !ok {
			continue
		}
		tw.AppendRow(table.Row{k.String(), stats.TotalRuns, stats.QueuedRuns, formatSeconds(stats.Average())})
	}
	tw.Render()
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	// Leave the case of workspace names untouched.
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2f", seconds)
}
