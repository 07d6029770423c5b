// Package metrics records rotation activity in Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives rotation events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordGeneration(attempts, spread int, allPlayed bool)
	RecordEdit(result string)
	RecordRepair(swaps int, missing int)
}

// Edit results
const (
	EditAccepted  = "accepted"
	EditDuplicate = "duplicate"
	EditRejected  = "rejected"
)

// Nop drops every event.
type Nop struct{}

func (Nop) RecordGeneration(int, int, bool) {}
func (Nop) RecordEdit(string)               {}
func (Nop) RecordRepair(int, int)           {}

// PromRecorder records rotation events in Prometheus metrics.
type PromRecorder struct {
	generations *prometheus.CounterVec
	attempts    prometheus.Histogram
	spread      prometheus.Histogram
	edits       *prometheus.CounterVec
	swaps       prometheus.Counter
	unrepaired  prometheus.Counter
}

// NewPromRecorder registers the collectors on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PromRecorder{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rotator_generations_total",
			Help: "Rotations generated, by whether every player made a lineup",
		}, []string{"all_played"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rotator_generation_attempts",
			Help:    "Search attempts used per generated rotation",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 400, 800},
		}),
		spread: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rotator_generation_spread",
			Help:    "Minute spread of the chosen rotation",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8},
		}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rotator_interval_edits_total",
			Help: "Interval edits by result",
		}, []string{"result"}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rotator_repair_swaps_total",
			Help: "Slots reassigned by the repair pass",
		}),
		unrepaired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rotator_repair_unresolved_players_total",
			Help: "Players still without minutes after a repair pass",
		}),
	}

	var err error
	if r.generations, err = register(reg, r.generations); err != nil {
		return nil, err
	}
	if r.attempts, err = register(reg, r.attempts); err != nil {
		return nil, err
	}
	if r.spread, err = register(reg, r.spread); err != nil {
		return nil, err
	}
	if r.edits, err = register(reg, r.edits); err != nil {
		return nil, err
	}
	if r.swaps, err = register(reg, r.swaps); err != nil {
		return nil, err
	}
	if r.unrepaired, err = register(reg, r.unrepaired); err != nil {
		return nil, err
	}
	return r, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (r *PromRecorder) RecordGeneration(attempts, spread int, allPlayed bool) {
	r.generations.WithLabelValues(boolLabel(allPlayed)).Inc()
	r.attempts.Observe(float64(attempts))
	r.spread.Observe(float64(spread))
}

func (r *PromRecorder) RecordEdit(result string) {
	r.edits.WithLabelValues(result).Inc()
}

func (r *PromRecorder) RecordRepair(swaps int, missing int) {
	r.swaps.Add(float64(swaps))
	r.unrepaired.Add(float64(missing))
}
