package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	linesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depgraph_lines_total",
		Help: "Total number of input lines consumed by the driver.",
	})

	sentencesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depgraph_sentences_total",
		Help: "Total number of sentences produced by sentence splitting.",
	})

	sentencesFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depgraph_sentences_filtered_total",
		Help: "Total number of sentences dropped by the length filter.",
	})

	extractFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depgraph_extract_failures_total",
		Help: "Total number of sentences dropped because no parse could be extracted.",
	})

	splitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depgraph_split_failures_total",
		Help: "Total number of input lines whose sentence split failed.",
	})

	parseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "depgraph_sentence_parse_duration_seconds",
		Help:    "Latency of parsing and extracting a single sentence.",
		Buckets: prometheus.DefBuckets,
	})
)
