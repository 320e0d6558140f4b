// Package collector gathers metrics for each of an organization's workspaces
// in turn.
package collector

import (
	"context"
	"time"

	"github.com/leg100/tfmetrics/internal/logr"
	"github.com/leg100/tfmetrics/internal/month"
	"github.com/leg100/tfmetrics/internal/report"
	"github.com/leg100/tfmetrics/internal/run"
	"github.com/leg100/tfmetrics/internal/workspace"
)

type (
	workspaceClient interface {
		List(ctx context.Context, organization string) ([]*workspace.Workspace, error)
		CountResources(ctx context.Context, workspaceID string) (int, error)
	}

	runClient interface {
		List(ctx context.Context, workspaceID string) ([]*run.Run, error)
	}

	// Collector gathers metrics for each of an organization's workspaces.
	// Workspaces are processed one at a time. A workspace that cannot be
	// processed is logged and skipped and does not affect the others.
	Collector struct {
		Organization string
		Workspaces   workspaceClient
		Runs         runClient
		Sections     report.Sections
		// Now is when collection started.
		Now    time.Time
		Window month.Window
		Logger logr.Logger
	}
)

// Collect gathers metrics and builds a report. An error is only returned if
// the context is canceled.
func (c *Collector) Collect(ctx context.Context) (*report.Report, error) {
	builder := report.NewBuilder(c.Organization, c.Now, c.Window, c.Sections)

	workspaces, err := c.Workspaces.List(ctx, c.Organization)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.Logger.Error(err, "listing workspaces", "organization", c.Organization)
		return builder.Build(), nil
	}
	c.Logger.V(1).Info("retrieved workspaces", "organization", c.Organization, "count", len(workspaces))

	for _, ws := range workspaces {
		c.Logger.Info("analyzing workspace", "name", ws.Name, "id", ws.ID)

		summary, err := c.summarize(ctx, ws)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.Logger.Error(err, "skipping workspace", "name", ws.Name, "id", ws.ID)
			builder.Fail(ws.ID, ws.Name, err)
			continue
		}
		builder.Add(summary)
	}
	return builder.Build(), nil
}

func (c *Collector) summarize(ctx context.Context, ws *workspace.Workspace) (report.WorkspaceSummary, error) {
	summary := report.WorkspaceSummary{
		ID:   ws.ID,
		Name: ws.Name,
	}
	logger := c.Logger.WithValues("workspace", ws.Name)

	if c.Sections.Resources {
		count, err := c.Workspaces.CountResources(ctx, ws.ID)
		if err != nil {
			return report.WorkspaceSummary{}, err
		}
		summary.ResourceCount = count
		logger.V(1).Info("counted resources", "count", count)
	}

	if c.Sections.Applies || c.Sections.Queue {
		runs, err := c.Runs.List(ctx, ws.ID)
		if err != nil {
			return report.WorkspaceSummary{}, err
		}
		runSummary := run.Summarize(logger, c.Window, runs)
		summary.Applies = runSummary.Applies
		summary.Queue = runSummary.Queue
		summary.QueueByMonth = runSummary.QueueByMonth
		logger.V(1).Info("summarized runs",
			"runs", runSummary.Queue.TotalRuns,
			"queued", runSummary.Queue.QueuedRuns,
			"applies", runSummary.Applies.Total(),
		)
	}
	return summary, nil
}
