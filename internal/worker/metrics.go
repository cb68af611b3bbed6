package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_jobs_total",
			Help: "Story generation jobs by final status.",
		},
		[]string{"status"},
	)
	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_job_duration_seconds",
			Help:    "Time from pickup to final status.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"status"},
	)
	storyNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adventure_story_nodes",
			Help:    "Nodes per generated story.",
			Buckets: prometheus.LinearBuckets(1, 2, 8), // 1 .. 15
		},
	)
	storiesTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adventure_stories_truncated_total",
			Help: "Stories cut down by the node or depth limit.",
		},
	)
	queueRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adventure_jobs_rejected_total",
			Help: "Jobs that could not be queued.",
		},
	)
)
