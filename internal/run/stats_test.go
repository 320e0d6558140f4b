package run

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	tfe "github.com/hashicorp/go-tfe"
	"github.com/leg100/tfmetrics/internal/logr"
	"github.com/leg100/tfmetrics/internal/month"
	"github.com/stretchr/testify/assert"
)

func TestQueueStats_Average(t *testing.T) {
	assert.Equal(t, 0.0, QueueStats{TotalRuns: 3}.Average())
	assert.Equal(t, 15.0, QueueStats{TotalRuns: 3, QueuedRuns: 2, QueueSeconds: 30}.Average())
}

func TestQueueStats_Merge(t *testing.T) {
	// workspace A has queue times [10, 20], workspace B has [30]
	a := QueueStats{TotalRuns: 2, QueuedRuns: 2, QueueSeconds: 30}
	b := QueueStats{TotalRuns: 4, QueuedRuns: 1, QueueSeconds: 30}

	var org QueueStats
	org.Merge(a)
	org.Merge(b)

	assert.Equal(t, QueueStats{TotalRuns: 6, QueuedRuns: 3, QueueSeconds: 60}, org)
	// mean of [10, 20, 30], not mean of [15, 30]
	assert.Equal(t, 20.0, org.Average())
}

func TestSummarize(t *testing.T) {
	window := month.NewWindow(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	runs := []*Run{
		newTestRun("run-1", tfe.RunApplied, "2024-03-01T00:00:00.000Z", "2024-03-01T00:00:10.000Z"),
		newTestRun("run-2", tfe.RunApplying, "2024-03-02T00:00:00.000Z", "2024-03-02T00:00:20.000Z"),
		newTestRun("run-3", tfe.RunPlanned, "2024-02-02T00:00:00.000Z", "2024-02-02T00:00:30.000Z"),
		// not queued
		{ID: "run-4", Status: tfe.RunPending, CreatedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)},
		// outside window
		newTestRun("run-5", tfe.RunApplied, "2022-01-01T00:00:00.000Z", "2022-01-01T00:01:00.000Z"),
	}

	got := Summarize(logr.Discard(), window, runs)

	assert.Equal(t, month.Counts{"2024-03": 2}, got.Applies)
	assert.Equal(t, QueueStats{TotalRuns: 5, QueuedRuns: 4, QueueSeconds: 120}, got.Queue)
	assert.Equal(t, 30.0, got.Queue.Average())
	assert.Equal(t, map[month.Key]QueueStats{
		"2024-03": {TotalRuns: 2, QueuedRuns: 2, QueueSeconds: 30},
		"2024-02": {TotalRuns: 2, QueuedRuns: 1, QueueSeconds: 30},
	}, got.QueueByMonth)
}

func TestSummarize_DataQuality(t *testing.T) {
	var buf bytes.Buffer
	logger := logr.FromHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}), logr.TextFormat)
	window := month.NewWindow(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	runs := []*Run{
		// planning before queuing
		newTestRun("run-1", tfe.RunApplied, "2024-03-01T00:00:10.000Z", "2024-03-01T00:00:00.000Z"),
		// unparseable
		newTestRun("run-2", tfe.RunApplied, "garbage", "2024-03-01T00:00:00.000Z"),
	}
	got := Summarize(logger, window, runs)

	assert.Equal(t, QueueStats{TotalRuns: 2, QueuedRuns: 1, QueueSeconds: -10}, got.Queue)
	assert.Contains(t, buf.String(), `level=WARN msg="negative queue time" run=run-1 seconds=-10`)
	assert.Contains(t, buf.String(), `level=ERROR msg="skipping queue time"`)
}

func newTestRun(id string, status tfe.RunStatus, queuing, planning string) *Run {
	created, _ := time.Parse(time.RFC3339Nano, queuing)
	return &Run{
		ID:        id,
		Status:    status,
		CreatedAt: created,
		StatusTimestamps: map[string]string{
			QueuingPhase:  queuing,
			PlanningPhase: planning,
		},
	}
}
