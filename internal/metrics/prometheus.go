package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomonatu8/envy-free-matching/allocation"
)

// Prometheus records scheduler events and trial outcomes. It is safe for
// concurrent use by parallel trials. Collectors are created and registered
// lazily, on the first observation.
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	rounds       prometheus.Counter
	activeGroups prometheus.Histogram
	claims       *prometheus.CounterVec
	matchLatency prometheus.Histogram
	trials       *prometheus.CounterVec
	trialLatency prometheus.Histogram
}

// Compile-time assertion that Prometheus is an allocation observer.
var _ allocation.Observer = (*Prometheus)(nil)

// NewPrometheus creates a collector on reg (prometheus.DefaultRegisterer if
// nil) under namespace ("envysim" if empty).
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "envysim"
	}

	return &Prometheus{reg: reg, namespace: namespace}
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.rounds = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "rounds_total",
			Help:      "Total allocation rounds started.",
		})
		p.activeGroups = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "active_groups",
			Help:      "Groups below capacity at the start of a round.",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		})
		p.claims = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "claims_total",
			Help:      "Items claimed, by group index.",
		}, []string{"group"})
		p.matchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "matching",
			Name:      "solve_seconds",
			Help:      "Latency of one fixed-size matching solve in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10), // 10µs .. ~2.6s
		})
		p.trials = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "experiment",
			Name:      "trials_total",
			Help:      "Finished trials by result (envy_free, envy, error).",
		}, []string{"result"})
		p.trialLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "experiment",
			Name:      "trial_seconds",
			Help:      "Wall time of one trial (allocation plus evaluation) in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		})

		p.reg.MustRegister(p.rounds)
		p.reg.MustRegister(p.activeGroups)
		p.reg.MustRegister(p.claims)
		p.reg.MustRegister(p.matchLatency)
		p.reg.MustRegister(p.trials)
		p.reg.MustRegister(p.trialLatency)
	})
}

// OnRound implements allocation.Observer.
func (p *Prometheus) OnRound(_ int, active int) {
	p.ensureRegistered()
	p.rounds.Inc()
	p.activeGroups.Observe(float64(active))
}

// OnMatch implements allocation.Observer.
func (p *Prometheus) OnMatch(_ int, elapsed time.Duration) {
	p.ensureRegistered()
	p.matchLatency.Observe(elapsed.Seconds())
}

// OnClaim implements allocation.Observer.
func (p *Prometheus) OnClaim(c allocation.Claim) {
	p.ensureRegistered()
	p.claims.WithLabelValues(strconv.Itoa(c.Group)).Inc()
}

// ObserveTrial implements experiment.TrialRecorder.
func (p *Prometheus) ObserveTrial(elapsed time.Duration, envyFree bool, err error) {
	p.ensureRegistered()
	result := "envy"
	switch {
	case err != nil:
		result = "error"
	case envyFree:
		result = "envy_free"
	}
	p.trials.WithLabelValues(result).Inc()
	p.trialLatency.Observe(elapsed.Seconds())
}

// WriteTextfile dumps every metric gathered by g to path in the Prometheus
// text exposition format.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	return prometheus.WriteToTextfile(path, g)
}
