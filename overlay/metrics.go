package overlay

import "github.com/prometheus/client_golang/prometheus"

// Render outcomes
const (
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeFailed  = "failed"
)

// RendersTotal counts render passes by overlay and outcome.
var RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "overlay_renders_total",
	Help: "Overlay render passes by overlay and outcome.",
}, []string{"overlay", "outcome"})

func init() {
	prometheus.MustRegister(RendersTotal)
}

// Observe counts one render pass of overlay with the given outcome.
func Observe(overlay, outcome string) {
	RendersTotal.WithLabelValues(overlay, outcome).Inc()
}

