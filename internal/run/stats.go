package run

import (
	"github.com/leg100/tfmetrics/internal/logr"
	"github.com/leg100/tfmetrics/internal/month"
)

type (
	// QueueStats summarises the time a set of runs spent queued.
	QueueStats struct {
		// TotalRuns is the number of runs, queued or not.
		TotalRuns int
		// QueuedRuns is the number of runs that passed through the queue.
		QueuedRuns int
		// QueueSeconds is the sum of the queue times of the queued runs.
		QueueSeconds float64
	}

	// Summary summarises a workspace's runs.
	Summary struct {
		// Applies is the number of applies in each month of the window.
		Applies month.Counts
		// Queue summarises all of the runs, regardless of when they were
		// created.
		Queue QueueStats
		// QueueByMonth summarises the runs created in each month of the
		// window.
		QueueByMonth map[month.Key]QueueStats
	}
)

// Average is the mean queue time of the queued runs, or zero if there are no
// queued runs.
func (s QueueStats) Average() float64 {
	if s.QueuedRuns == 0 {
		return 0
	}
	return s.QueueSeconds / float64(s.QueuedRuns)
}

// Merge adds the runs summarised by other. The average of the merged stats
// is the mean over every queued run, rather than a mean of means.
func (s *QueueStats) Merge(other QueueStats) {
	s.TotalRuns += other.TotalRuns
	s.QueuedRuns += other.QueuedRuns
	s.QueueSeconds += other.QueueSeconds
}

func (s *QueueStats) add(queued bool, seconds float64) {
	s.TotalRuns++
	if queued {
		s.QueuedRuns++
		s.QueueSeconds += seconds
	}
}

// Summarize counts applies by month and measures queue times for the given
// runs. A run whose queue time cannot be determined is logged and counted
// as not having been queued.
func Summarize(logger logr.Logger, window month.Window, runs []*Run) Summary {
	summary := Summary{
		Applies:      make(month.Counts),
		QueueByMonth: make(map[month.Key]QueueStats),
	}
	for _, r := range runs {
		if IsApply(r) {
			summary.Applies.Inc(window, r.CreatedAt)
		}

		queued := WasQueued(r)
		seconds, offsetIgnored, err := QueueTime(r)
		if err != nil {
			logger.Error(err, "skipping queue time", "run", r.ID)
			queued = false
		}
		if offsetIgnored {
			logger.Warn("ignored timezone offset in status timestamps", "run", r.ID,
				"queuing", r.StatusTimestamps[QueuingPhase], "planning", r.StatusTimestamps[PlanningPhase])
		}
		if seconds < 0 {
			logger.Warn("negative queue time", "run", r.ID, "seconds", seconds)
		}

		summary.Queue.add(queued, seconds)

		if k := month.KeyOf(r.CreatedAt); window.Contains(k) {
			stats := summary.QueueByMonth[k]
			stats.add(queued, seconds)
			summary.QueueByMonth[k] = stats
		}
	}
	return summary
}
