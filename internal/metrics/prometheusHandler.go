package metrics

import (
	"net/http"
	"strconv"
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
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var extractionMethodTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "extraction_method_total",
	Help: "Text extractions by method, with degraded results flagged",
}, []string{"method", "degraded"})

var riskBandTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "risk_band_total",
	Help: "Risk reports by summary band",
}, []string{"band"})

var packBuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pack_build_total",
	Help: "Submission pack builds by outcome",
}, []string{"status"})

var packVerificationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pack_verification_total",
	Help: "Pack verifications by validity",
}, []string{"valid"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) CaptureWriteHeaderMetrics(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
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

func CountExtractionMethod(method string, degraded bool) {
	extractionMethodTotal.WithLabelValues(method, strconv.FormatBool(degraded)).Inc()
}

func CountRiskBand(band string) {
	riskBandTotal.WithLabelValues(band).Inc()
}

func CountPackBuild(status string) {
	packBuildTotal.WithLabelValues(status).Inc()
}

func CountPackVerification(valid bool) {
	packVerificationTotal.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent executing one job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_stage_latency_seconds",
	Help:    "Latency of pipeline stages and external tool calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"stage"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	stageLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
