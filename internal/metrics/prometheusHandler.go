package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of ingestion jobs pulled from the queue and waiting for a worker",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var streamEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stream_events_total",
	Help: "Stream events emitted to clients labelled by event type",
}, []string{"event"})

var graphChunkOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "graph_chunk_outcomes_total",
	Help: "Relation extraction results per chunk",
}, []string{"outcome"})

var graphRelationsWritten = promauto.NewCounter(prometheus.CounterOpts{
	Name: "graph_relations_written_total",
	Help: "Relations merged into the graph store",
})

var ingestionJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ingestion_jobs_total",
	Help: "Finished ingestion jobs labelled by outcome",
}, []string{"status"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush and Hijack keep SSE and websocket upgrades working through the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *HttpStatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.Status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CountStreamEvent(eventType string) {
	streamEventsTotal.WithLabelValues(eventType).Inc()
}

func CountGraphChunks(succeeded int, failed int, relations int) {
	graphChunkOutcomes.WithLabelValues("succeeded").Add(float64(succeeded))
	graphChunkOutcomes.WithLabelValues("failed").Add(float64(failed))
	graphRelationsWritten.Add(float64(relations))
}

func CountIngestionJob(status string) {
	ingestionJobsTotal.WithLabelValues(status).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ingestion_job_duration_seconds",
	Help:    "Total time spent on one ingestion job.",
	Buckets: []float64{.5, 1, 5, 10, 30, 60, 120, 300, 600},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls and pipeline steps.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
