// Package metrics exposes Prometheus collectors for the layout forces.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Layout groups the collectors updated by the link force and the
// simulation. A nil *Layout records nothing, so forces work without
// metrics unless a caller opts in.
type Layout struct {
	Ticks       prometheus.Counter
	LinkUpdates prometheus.Counter
	Rebinds     *prometheus.CounterVec
	Cursor      prometheus.Gauge
	Alpha       prometheus.Gauge
}

// NewLayout registers the layout collectors on reg. Pass
// prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewLayout(reg prometheus.Registerer) *Layout {
	factory := promauto.With(reg)
	return &Layout{
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "echolink_link_force_ticks_total",
			Help: "Total number of link force ticks applied",
		}),
		LinkUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "echolink_link_updates_total",
			Help: "Total number of per-link velocity corrections",
		}),
		// Labeled by "ok" or "error".
		Rebinds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "echolink_link_rebinds_total",
			Help: "Total number of link set bindings",
		}, []string{"result"}),
		Cursor: factory.NewGauge(prometheus.GaugeOpts{
			Name: "echolink_link_cursor",
			Help: "Starting link index of the next sampled window",
		}),
		Alpha: factory.NewGauge(prometheus.GaugeOpts{
			Name: "echolink_simulation_alpha",
			Help: "Current alpha of the layout simulation",
		}),
	}
}

// ObserveTick records a link force tick that made updates corrections and
// left the cursor at cursor.
func (m *Layout) ObserveTick(updates, cursor int) {
	if m == nil {
		return
	}
	m.Ticks.Inc()
	m.LinkUpdates.Add(float64(updates))
	m.Cursor.Set(float64(cursor))
}

// ObserveRebind records the outcome of a binding.
func (m *Layout) ObserveRebind(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Rebinds.WithLabelValues(result).Inc()
}

// ObserveAlpha records the simulation temperature.
func (m *Layout) ObserveAlpha(alpha float64) {
	if m == nil {
		return
	}
	m.Alpha.Set(alpha)
}
