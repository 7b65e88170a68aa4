// Package metrics holds the Prometheus collectors exported by each binary.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marketplace"

// CronJobMetrics records outcomes of maintenance jobs.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	affected *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron collectors. A nil registerer yields a
// no-op recorder.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "cron",
		Name:      "job_duration_seconds",
		Help:      "Duration of maintenance jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cron",
		Name:      "job_runs_total",
		Help:      "Maintenance job executions by result.",
	}, []string{"job", "result"})
	affected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cron",
		Name:      "job_rows_affected_total",
		Help:      "Rows changed by maintenance jobs.",
	}, []string{"job"})
	reg.MustRegister(duration, runs, affected)
	return &CronJobMetrics{duration: duration, runs: runs, affected: affected}
}

func (c *CronJobMetrics) ObserveDuration(job string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(d.Seconds())
}

func (c *CronJobMetrics) IncSuccess(job string) {
	c.incRun(job, "success")
}

func (c *CronJobMetrics) IncFailure(job string) {
	c.incRun(job, "failure")
}

func (c *CronJobMetrics) AddAffected(job string, rows int64) {
	if c == nil || c.affected == nil || rows <= 0 {
		return
	}
	c.affected.WithLabelValues(normalizeLabel(job)).Add(float64(rows))
}

func (c *CronJobMetrics) incRun(job, result string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(job), result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
