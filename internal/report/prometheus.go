package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tfmetrics"

type metrics struct {
	resources        *prometheus.GaugeVec
	applies          *prometheus.GaugeVec
	runs             *prometheus.GaugeVec
	queuedRuns       *prometheus.GaugeVec
	queueSeconds     *prometheus.GaugeVec
	orgResources     *prometheus.GaugeVec
	orgQueueSeconds  *prometheus.GaugeVec
	failedWorkspaces *prometheus.GaugeVec
}

func newMetrics() *metrics {
	workspaceLabels := []string{"organization", "workspace"}
	return &metrics{
		resources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workspace",
			Name:      "resources",
			Help:      "Number of distinct resources in a workspace",
		}, workspaceLabels),
		applies: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workspace",
			Name:      "applies",
			Help:      "Number of applies in a workspace by month",
		}, append(workspaceLabels, "month")),
		runs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workspace",
			Name:      "runs",
			Help:      "Number of runs in a workspace",
		}, workspaceLabels),
		queuedRuns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workspace",
			Name:      "queued_runs",
			Help:      "Number of runs in a workspace that were queued",
		}, workspaceLabels),
		queueSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workspace",
			Name:      "queue_seconds_average",
			Help:      "Average time queued runs in a workspace spent queued",
		}, workspaceLabels),
		orgResources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "organization",
			Name:      "resources",
			Help:      "Number of resources across all workspaces",
		}, []string{"organization"}),
		orgQueueSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "organization",
			Name:      "queue_seconds_average",
			Help:      "Average time queued runs across all workspaces spent queued",
		}, []string{"organization"}),
		failedWorkspaces: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "organization",
			Name:      "failed_workspaces",
			Help:      "Number of workspaces that could not be summarised",
		}, []string{"organization"}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.resources,
		m.applies,
		m.runs,
		m.queuedRuns,
		m.queueSeconds,
		m.orgResources,
		m.orgQueueSeconds,
		m.failedWorkspaces,
	}
}

// NewRegistry returns a registry populated with gauges for the report.
func NewRegistry(r *Report) (*prometheus.Registry, error) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	org := r.Organization
	for _, ws := range r.Workspaces {
		if r.Sections.Resources {
			m.resources.WithLabelValues(org, ws.Name).Set(float64(ws.ResourceCount))
		}
		if r.Sections.Applies {
			for _, k := range r.Window.Distinct() {
				m.applies.WithLabelValues(org, ws.Name, k.String()).Set(float64(ws.Applies.Get(k)))
			}
		}
		if r.Sections.Queue {
			m.runs.WithLabelValues(org, ws.Name).Set(float64(ws.Queue.TotalRuns))
			m.queuedRuns.WithLabelValues(org, ws.Name).Set(float64(ws.Queue.QueuedRuns))
			m.queueSeconds.WithLabelValues(org, ws.Name).Set(ws.Queue.Average())
		}
	}
	if r.Sections.Resources {
		m.orgResources.WithLabelValues(org).Set(float64(r.Totals.ResourceCount))
	}
	if r.Sections.Queue {
		m.orgQueueSeconds.WithLabelValues(org).Set(r.Totals.Queue.Average())
	}
	m.failedWorkspaces.WithLabelValues(org).Set(float64(len(r.Failures)))
	return reg, nil
}

// WriteTextfile writes the report's gauges to path in the Prometheus text
// exposition format, for collection by the node exporter's textfile
// collector.
func WriteTextfile(path string, r *Report) error {
	reg, err := NewRegistry(r)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
