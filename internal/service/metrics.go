package service

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusUseCaseObserver exports use-case counts and latencies.
type PrometheusUseCaseObserver struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusUseCaseObserver registers the use-case metrics on reg.
func NewPrometheusUseCaseObserver(reg prometheus.Registerer) *PrometheusUseCaseObserver {
	o := &PrometheusUseCaseObserver{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transcend",
			Name:      "use_case_total",
			Help:      "Number of service use-case executions.",
		}, []string{"use_case", "success"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "transcend",
			Name:      "use_case_duration_seconds",
			Help:      "Service use-case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
	}
	reg.MustRegister(o.total, o.duration)
	return o
}

func (o *PrometheusUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	success := "true"
	if !event.Success {
		success = "false"
	}
	o.total.WithLabelValues(event.Name, success).Inc()
	o.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}
