package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 應用程式指標
type Metrics struct {
	// HTTP 請求總數（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP 請求延遲（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 預約轉換結果總數（operation: create/cancel/reconfirm, status: success/no_spots/duplicate/conflict/error）
	ReservationsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry 將指標註冊到指定的 registry，測試時可帶入獨立 registry 避免重複註冊
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation transition attempts",
			},
			[]string{"operation", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
	)

	return m
}
