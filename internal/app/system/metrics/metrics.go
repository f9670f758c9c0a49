// Package metrics holds the Prometheus collectors for triage and lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportsTriaged counts issues produced by the triage pipeline.
	// Labels: category
	ReportsTriaged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adarshgram",
			Subsystem: "triage",
			Name:      "reports_total",
			Help:      "Total number of reports triaged into issues, by category",
		},
		[]string{"category"},
	)

	// SentimentSource counts which classifier supplied an issue's sentiment.
	// Labels: source (remote, lexicon)
	SentimentSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adarshgram",
			Subsystem: "triage",
			Name:      "sentiment_source_total",
			Help:      "Total number of issues by sentiment source",
		},
		[]string{"source"},
	)

	// RemoteCalls counts remote classifier attempts by outcome.
	// Labels: result (ok, disabled, rate_limited, timeout, transport_error, bad_status, bad_payload)
	RemoteCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adarshgram",
			Subsystem: "remote_classifier",
			Name:      "calls_total",
			Help:      "Total number of remote classifier attempts by outcome",
		},
		[]string{"result"},
	)

	// RemoteLatency tracks remote classifier round trips that reached the network.
	RemoteLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "adarshgram",
			Subsystem: "remote_classifier",
			Name:      "duration_seconds",
			Help:      "Duration of remote classifier calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Transitions counts lifecycle state changes.
	// Labels: entity (issue, project, contractor), status
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adarshgram",
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Total number of lifecycle transitions by entity and resulting status",
		},
		[]string{"entity", "status"},
	)

	// StoreWriteFailures counts failed document store snapshot writes.
	// Labels: collection
	StoreWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adarshgram",
			Subsystem: "store",
			Name:      "write_failures_total",
			Help:      "Total number of failed collection snapshot writes",
		},
		[]string{"collection"},
	)
)
