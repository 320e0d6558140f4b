// Package run decodes runs, classifies them, and measures the time they spent
// queued.
package run

import (
	"fmt"
	"slices"
	"time"

	tfe "github.com/hashicorp/go-tfe"
	"github.com/leg100/tfmetrics/internal"
)

const (
	// QueuingPhase is the status timestamp recorded when a run enters the
	// queue.
	QueuingPhase = "queuing"
	// PlanningPhase is the status timestamp recorded when a run starts
	// planning.
	PlanningPhase = "planning"
)

// preQueueStatuses are statuses of runs that have yet to reach the queue.
var preQueueStatuses = []tfe.RunStatus{
	tfe.RunPending,
	tfe.RunFetching,
	tfe.RunFetchingCompleted,
}

type (
	// Run is a terraform run.
	Run struct {
		ID        string
		Status    tfe.RunStatus
		CreatedAt time.Time
		// StatusTimestamps maps the name of a lifecycle phase to the
		// ISO-8601 timestamp at which the run entered that phase.
		StatusTimestamps map[string]string
		WorkspaceID      string
	}

	// record is a run as served by the API.
	record struct {
		Type          string         `json:"type"`
		ID            string         `json:"id"`
		Attributes    *attributes    `json:"attributes"`
		Relationships *relationships `json:"relationships"`
	}

	attributes struct {
		Status           string            `json:"status"`
		CreatedAt        string            `json:"created-at"`
		StatusTimestamps map[string]string `json:"status-timestamps"`
	}

	relationships struct {
		Workspace struct {
			Data *struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"workspace"`
	}
)

func newFromRecord(rec record, workspaceID string) (*Run, error) {
	if rec.ID == "" {
		return nil, &internal.DataShapeError{Source: "run", Message: "missing id"}
	}
	if rec.Attributes == nil {
		return nil, &internal.DataShapeError{Source: rec.ID, Message: "missing attributes"}
	}
	if rec.Attributes.Status == "" {
		return nil, &internal.DataShapeError{Source: rec.ID, Message: "missing status"}
	}
	createdAt, err := internal.ParseCreatedAt(rec.Attributes.CreatedAt)
	if err != nil {
		return nil, &internal.DataShapeError{Source: rec.ID, Message: fmt.Sprintf("invalid created-at: %s", err)}
	}
	run := &Run{
		ID:               rec.ID,
		Status:           tfe.RunStatus(rec.Attributes.Status),
		CreatedAt:        createdAt,
		StatusTimestamps: rec.Attributes.StatusTimestamps,
		WorkspaceID:      workspaceID,
	}
	if rec.Relationships != nil && rec.Relationships.Workspace.Data != nil {
		run.WorkspaceID = rec.Relationships.Workspace.Data.ID
	}
	return run, nil
}

// IsApply determines whether the run is an apply, i.e. whether it is applying
// or has applied.
func IsApply(r *Run) bool {
	return r.Status == tfe.RunApplied || r.Status == tfe.RunApplying
}

// WasQueued determines whether the run passed through the queue: it must have
// progressed beyond fetching its configuration and have recorded both when it
// was queued and when it started planning.
func WasQueued(r *Run) bool {
	if slices.Contains(preQueueStatuses, r.Status) {
		return false
	}
	_, queued := r.StatusTimestamps[QueuingPhase]
	_, planned := r.StatusTimestamps[PlanningPhase]
	return queued && planned
}

// QueueTime returns the number of seconds the run spent queued, i.e. the time
// between queuing and planning. Runs that were not queued spent zero seconds
// queued.
//
// Timestamps are read as UTC wall-clock times, ignoring zone information.
// If either timestamp carried a numeric offset, offsetIgnored is true.
// Inconsistent timestamps can produce a negative result; it is returned as is.
func QueueTime(r *Run) (seconds float64, offsetIgnored bool, err error) {
	if !WasQueued(r) {
		return 0, false, nil
	}
	queuing, queuingOffset, err := internal.ParseNaiveTimestamp(r.StatusTimestamps[QueuingPhase])
	if err != nil {
		return 0, false, &internal.DataShapeError{Source: r.ID, Message: fmt.Sprintf("invalid %s timestamp: %s", QueuingPhase, err)}
	}
	planning, planningOffset, err := internal.ParseNaiveTimestamp(r.StatusTimestamps[PlanningPhase])
	if err != nil {
		return 0, false, &internal.DataShapeError{Source: r.ID, Message: fmt.Sprintf("invalid %s timestamp: %s", PlanningPhase, err)}
	}
	return planning.Sub(queuing).Seconds(), queuingOffset || planningOffset, nil
}
