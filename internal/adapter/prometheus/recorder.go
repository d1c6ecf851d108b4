package prometheus

import (
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alanyang/shift-router/internal/domain/pass"
	portmetrics "github.com/alanyang/shift-router/internal/port/metrics"
)

const defaultNamespace = "shift_router"

var _ portmetrics.Recorder = (*Recorder)(nil)

// Recorder is the Prometheus-backed metrics.Recorder.
type Recorder struct {
	gatherer promclient.Gatherer

	passes       *promclient.CounterVec
	tasks        *promclient.CounterVec
	passDuration *promclient.HistogramVec
	rejected     promclient.Counter
	refreshes    *promclient.CounterVec
}

// NewRecorder registers the engine collectors on a fresh registry.
// namespace defaults to "shift_router" when empty.
func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = defaultNamespace
	}
	reg := promclient.NewRegistry()

	r := &Recorder{
		gatherer: reg,
		passes: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: namespace,
			Subsystem: "distribution",
			Name:      "passes_total",
			Help:      "Distribution passes by trigger and terminal reason.",
		}, []string{"trigger", "reason"}),
		tasks: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: namespace,
			Subsystem: "distribution",
			Name:      "tasks_total",
			Help:      "Tasks examined by result (assigned, skipped, failed).",
		}, []string{"result"}),
		passDuration: promclient.NewHistogramVec(promclient.HistogramOpts{
			Namespace: namespace,
			Subsystem: "distribution",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a distribution pass in seconds.",
			Buckets:   promclient.ExponentialBuckets(0.05, 2, 12), // 50ms .. ~100s
		}, []string{"trigger"}),
		rejected: promclient.NewCounter(promclient.CounterOpts{
			Namespace: namespace,
			Subsystem: "distribution",
			Name:      "rejected_passes_total",
			Help:      "Pass requests rejected because another pass was in progress.",
		}),
		refreshes: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: namespace,
			Subsystem: "task_source",
			Name:      "credential_refreshes_total",
			Help:      "Task source credential refreshes by result (ok, error).",
		}, []string{"result"}),
	}

	reg.MustRegister(r.passes, r.tasks, r.passDuration, r.rejected, r.refreshes)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return r
}

func (r *Recorder) ObservePass(o pass.Outcome) {
	r.passes.WithLabelValues(string(o.Trigger), string(o.Reason)).Inc()
	r.tasks.WithLabelValues("assigned").Add(float64(o.Assigned))
	r.tasks.WithLabelValues("skipped").Add(float64(o.Skipped))
	r.tasks.WithLabelValues("failed").Add(float64(o.Failed))
	r.passDuration.WithLabelValues(string(o.Trigger)).Observe(o.Duration().Seconds())
}

func (r *Recorder) ObserveRejectedPass() {
	r.rejected.Inc()
}

func (r *Recorder) ObserveCredentialRefresh(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.refreshes.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
