package observer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agiulucom42-del/synthetic-scout/internal/config"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const metricsNamespace = "synthetic_scout"

// PrometheusObserver records run metrics on a private registry and writes
// them in the node_exporter textfile format when the run finishes.
type PrometheusObserver struct {
	log      logrus.FieldLogger
	path     string
	registry *prometheus.Registry

	testsTotal    *prometheus.CounterVec
	testDuration  *prometheus.HistogramVec
	anomalies     prometheus.Gauge
	lastRunSecond prometheus.Gauge
}

// NewPrometheus creates an observer that writes its metrics to path.
func NewPrometheus(log logrus.FieldLogger, path string) *PrometheusObserver {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusObserver{
		log:      log.WithField("component", "prometheus_observer"),
		path:     path,
		registry: reg,
		testsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "tests_total",
				Help:      "Total number of executed tests by status",
			},
			[]string{"status"},
		),
		testDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "test_duration_seconds",
				Help:      "Test body duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		anomalies: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "anomalies",
			Help:      "Duration anomalies detected in the last run",
		}),
		lastRunSecond: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
}

// PrometheusFactory builds a Prometheus observer when METRICS_TEXTFILE is set.
func PrometheusFactory(cfg *config.Config, log logrus.FieldLogger) (Observer, error) {
	if cfg.MetricsTextfile == "" {
		return nil, ErrDisabled
	}

	return NewPrometheus(log, cfg.MetricsTextfile), nil
}

// Registry exposes the observer's metrics.
func (p *PrometheusObserver) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusObserver) OnStart(context.Context, RunInfo) {}

func (p *PrometheusObserver) OnTestResult(_ context.Context, result metrics.TestResult) {
	status := string(result.Status)

	p.testsTotal.WithLabelValues(status).Inc()

	if result.DurationMS != nil {
		p.testDuration.WithLabelValues(status).Observe(result.Duration().Seconds())
	}
}

func (p *PrometheusObserver) OnFinish(_ context.Context, summary *metrics.Summary) {
	p.anomalies.Set(float64(summary.AnomalyCount))
	p.lastRunSecond.SetToCurrentTime()

	if err := p.write(); err != nil {
		p.log.WithError(err).Warn("failed to write metrics textfile")

		return
	}

	p.log.WithField("path", p.path).Debug("metrics textfile written")
}

func (p *PrometheusObserver) write() error {
	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
	}

	if err := prometheus.WriteToTextfile(p.path, p.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}

	return nil
}

var _ Observer = (*PrometheusObserver)(nil)
