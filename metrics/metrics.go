package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DigestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadbrief_digest_runs_total",
		Help: "Digest pipeline runs by subreddit and outcome.",
	}, []string{"subreddit", "outcome"})

	SummaryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threadbrief_summary_failures_total",
		Help: "Comment summarization calls that failed and were skipped.",
	})

	DescriptionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threadbrief_description_failures_total",
		Help: "Post description calls that failed and were skipped.",
	})
)

const (
	OutcomeProcessed = "processed"
	OutcomeCached    = "cached"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)
