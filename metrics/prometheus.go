// File: metrics/prometheus.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "cmv_site"

// Prometheus keeps its collectors in a private registry served by Handler.
type Prometheus struct {
	registry     *prometheus.Registry
	httpDuration *prometheus.HistogramVec
	apiDuration  *prometheus.HistogramVec
	apiErrors    *prometheus.CounterVec
	forms        *prometheus.CounterVec
	liveDisplays prometheus.Gauge
}

// NewPrometheus registers the site collectors plus the Go runtime and
// process collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: promNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: promNamespace,
			Name:      "content_api_duration_seconds",
			Help:      "Latency of Remote Content API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: promNamespace,
			Name:      "content_api_errors_total",
			Help:      "Remote Content API calls that failed or returned non-2xx.",
		}, []string{"method", "path", "status"}),
		forms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: promNamespace,
			Name:      "form_submissions_total",
			Help:      "Public form submissions by outcome.",
		}, []string{"form", "outcome"}),
		liveDisplays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: promNamespace,
			Name:      "live_carousel_displays",
			Help:      "Websocket connections currently following the carousel.",
		}),
	}
	p.registry.MustRegister(
		p.httpDuration, p.apiDuration, p.apiErrors, p.forms, p.liveDisplays,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry exposes the registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	p.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (p *Prometheus) APICall(method, path string, status int, elapsed time.Duration) {
	p.apiDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	if status < 200 || status > 299 {
		p.apiErrors.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	}
}

func (p *Prometheus) FormSubmission(form, outcome string) {
	p.forms.WithLabelValues(form, outcome).Inc()
}

func (p *Prometheus) LiveDisplays(count int) {
	p.liveDisplays.Set(float64(count))
}
