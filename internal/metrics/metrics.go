// Package metrics records step latencies and generation progress as
// Prometheus collectors on a private registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements sim.StepObserver.
type Recorder struct {
	registry *prometheus.Registry

	stepDuration *prometheus.HistogramVec
	stepsTotal   *prometheus.CounterVec
	generation   prometheus.Gauge
}

// NewRecorder registers the gridstep collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridstep_step_duration_seconds",
			Help:    "Wall time of one engine step",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"engine", "threads"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridstep_steps_total",
			Help: "Engine steps by outcome",
		}, []string{"engine", "status"}),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridstep_generation_index",
			Help: "Index of the current generation",
		}),
	}
	r.registry.MustRegister(r.stepDuration, r.stepsTotal, r.generation)
	return r
}

// ObserveStep records one engine step.
func (r *Recorder) ObserveStep(engine string, threads int, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		r.stepDuration.WithLabelValues(engine, strconv.Itoa(threads)).Observe(elapsed.Seconds())
	}
	r.stepsTotal.WithLabelValues(engine, status).Inc()
}

// ObserveGeneration records the index of the generation that became current.
func (r *Recorder) ObserveGeneration(index int) {
	r.generation.Set(float64(index))
}

// Registry exposes the registry for gathering or serving.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes the current metrics in the text exposition format, for
// node_exporter's textfile collector or for inspection.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
