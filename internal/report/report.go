// Package report folds per-workspace metrics into organization-wide reports
// and renders them.
package report

import (
	"time"

	"github.com/leg100/tfmetrics/internal/month"
	"github.com/leg100/tfmetrics/internal/run"
)

type (
	// WorkspaceSummary summarises a single workspace.
	WorkspaceSummary struct {
		ID   string
		Name string
		// ResourceCount is the number of distinct resources in the workspace.
		ResourceCount int
		// Applies is the number of applies in each month of the window.
		Applies month.Counts
		// Queue summarises all of the workspace's runs.
		Queue run.QueueStats
		// QueueByMonth summarises the runs created in each month of the
		// window.
		QueueByMonth map[month.Key]run.QueueStats
	}

	// Totals sums the summaries of every workspace.
	Totals struct {
		ResourceCount int
		Applies       month.Counts
		// Queue summarises every run in the organization. Its average is the
		// mean over all queued runs.
		Queue        run.QueueStats
		QueueByMonth map[month.Key]run.QueueStats
	}

	// Failure records a workspace that could not be summarised.
	Failure struct {
		WorkspaceID   string
		WorkspaceName string
		Err           error
	}

	// Sections determines which metrics a report covers.
	Sections struct {
		Resources bool
		Applies   bool
		Queue     bool
	}

	// Report summarises an organization's workspaces.
	Report struct {
		Organization string
		GeneratedAt  time.Time
		Window       month.Window
		Sections     Sections
		// Workspaces are the workspace summaries in the order they were
		// added.
		Workspaces []WorkspaceSummary
		Failures   []Failure
		Totals     Totals
	}

	// Builder accumulates workspace summaries into a report.
	Builder struct {
		report Report
	}
)

// AllSections covers every metric.
var AllSections = Sections{Resources: true, Applies: true, Queue: true}

// NewBuilder starts a report for the given organization and window.
func NewBuilder(organization string, now time.Time, window month.Window, sections Sections) *Builder {
	return &Builder{
		report: Report{
			Organization: organization,
			GeneratedAt:  now,
			Window:       window,
			Sections:     sections,
		},
	}
}

// Add adds a workspace's summary to the report.
func (b *Builder) Add(summary WorkspaceSummary) {
	b.report.Workspaces = append(b.report.Workspaces, summary)
}

// Fail records that a workspace could not be summarised. Nothing is
// accumulated for it.
func (b *Builder) Fail(workspaceID, workspaceName string, err error) {
	b.report.Failures = append(b.report.Failures, Failure{
		WorkspaceID:   workspaceID,
		WorkspaceName: workspaceName,
		Err:           err,
	})
}

// Build computes the totals and returns the report.
func (b *Builder) Build() *Report {
	r := b.report
	r.Workspaces = append([]WorkspaceSummary(nil), b.report.Workspaces...)
	r.Failures = append([]Failure(nil), b.report.Failures...)
	r.Totals = Sum(r.Workspaces)
	return &r
}

// Sum totals the given summaries.
func Sum(summaries []WorkspaceSummary) Totals {
	totals := Totals{
		Applies:      make(month.Counts),
		QueueByMonth: make(map[month.Key]run.QueueStats),
	}
	for _, s := range summaries {
		totals.ResourceCount += s.ResourceCount
		totals.Applies.Add(s.Applies)
		totals.Queue.Merge(s.Queue)
		for k, stats := range s.QueueByMonth {
			merged := totals.QueueByMonth[k]
			merged.Merge(stats)
			totals.QueueByMonth[k] = merged
		}
	}
	return totals
}
