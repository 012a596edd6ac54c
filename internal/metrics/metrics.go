package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "logingest"

const (
	FileResultOK          = "ok"
	FileResultFetchError  = "fetch_error"
	FileResultDecodeError = "decode_error"
	FileResultInsertError = "insert_error"
	FileResultExecError   = "execution_error"
)

var CounterFiles = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_total",
		Help:      "Files processed by ingestion units, by outcome.",
	},
	[]string{"result"},
)

var CounterRowsInserted = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_inserted_total",
		Help:      "Rows persisted to the store.",
	},
)

var CounterRowInsertFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "row_insert_failures_total",
		Help:      "Row inserts that failed and were dropped.",
	},
)

var CounterRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Ingestion requests, by final status.",
	},
	[]string{"status"},
)

var HistogramRequestDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Wall time of ingestion requests.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	},
)

func init() {
	prometheus.MustRegister(CounterFiles)
	prometheus.MustRegister(CounterRowsInserted)
	prometheus.MustRegister(CounterRowInsertFailures)
	prometheus.MustRegister(CounterRequests)
	prometheus.MustRegister(HistogramRequestDuration)
}
