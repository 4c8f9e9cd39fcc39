package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	Requests     *prometheus.CounterVec
	PostsCreated *prometheus.CounterVec
	Likes        prometheus.Counter
	LiveViewers  prometheus.Gauge
	LiveDropped  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chirp_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		PostsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chirp_posts_created_total",
				Help: "Total number of posts created, by kind",
			},
			[]string{"kind"},
		),
		Likes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chirp_likes_total",
			Help: "Total number of likes applied",
		}),
		LiveViewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chirp_live_viewers",
			Help: "Number of currently connected live viewers",
		}),
		LiveDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chirp_live_events_dropped_total",
			Help: "Live events dropped because a viewer buffer was full",
		}),
	}

	reg.MustRegister(m.Requests, m.PostsCreated, m.Likes, m.LiveViewers, m.LiveDropped)
	return m
}

func (m *Metrics) ObserveRequest(route, method string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) PostCreated(kind string) {
	if m == nil {
		return
	}
	m.PostsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) Liked() {
	if m == nil {
		return
	}
	m.Likes.Inc()
}

func (m *Metrics) SetViewers(n int) {
	if m == nil {
		return
	}
	m.LiveViewers.Set(float64(n))
}

func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.LiveDropped.Inc()
}
