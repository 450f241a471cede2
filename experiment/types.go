// Package experiment repeats random allocation trials and collects, for each
// trial, the bundles, the utilities and the cross-group valuations.
//
// A trial draws a uniform [0, 1) preference matrix for NumGroups·NEach agents
// over NumItems items, splits the agents into consecutive groups of NEach,
// runs allocation.RoundRobinByGroup with capacity NEach, and evaluates every
// group against every bundle.
//
// Trials run in parallel, bounded by Params.Workers. Each trial is an
// independent, single-threaded allocation with its own seed (TrialSeed), so
// results do not depend on the number of workers.
package experiment

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tomonatu8/envy-free-matching/allocation"
	"github.com/tomonatu8/envy-free-matching/evaluate"
	"github.com/tomonatu8/envy-free-matching/matching"
)

// ErrBadParams indicates experiment parameters outside their ranges.
var ErrBadParams = errors.New("experiment: invalid parameters")

// Params sizes a run.
type Params struct {
	NEach       int     // agents per group and bundle capacity
	NumGroups   int     // groups per trial
	NumItems    int     // items per trial
	NumTries    int     // number of trials
	Seed        uint64  // base seed
	Workers     int     // concurrent trials; 0 = GOMAXPROCS
	Incremental bool    // warm-started scheduler
	Scale       float64 // valuation scale; 0 = matching.DefaultScale
}

// Trial is the outcome of one allocation.
type Trial struct {
	Index      int
	Seed       uint64
	Allocation allocation.Result
	Valuations evaluate.Valuations
	Elapsed    time.Duration
}

// Result collects a run's trials, ordered by index.
type Result struct {
	RunID   uuid.UUID
	Params  Params
	Groups  [][]int
	Trials  []Trial
	Elapsed time.Duration
}

// TrialRecorder receives one call per finished trial. Implementations must
// be safe for concurrent use.
type TrialRecorder interface {
	ObserveTrial(elapsed time.Duration, envyFree bool, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTrial(time.Duration, bool, error) {}

// Options configures Run.
//
// Observer – passed to every allocation; shared by concurrent trials, so it
// must be safe for concurrent use.
// Recorder – per-trial outcome sink.
// Progress – called after each finished trial with (done, total), possibly
// from several goroutines.
type Options struct {
	Observer allocation.Observer
	Recorder TrialRecorder
	Progress func(done, total int)
}

// Option represents a functional option for Run.
type Option func(*Options)

// WithObserver forwards scheduler events of every trial to obs.
func WithObserver(obs allocation.Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

// WithRecorder installs a per-trial outcome sink.
func WithRecorder(r TrialRecorder) Option {
	return func(o *Options) {
		o.Recorder = r
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn func(done, total int)) Option {
	return func(o *Options) {
		o.Progress = fn
	}
}

// DefaultOptions returns options that observe nothing.
func DefaultOptions() Options {
	return Options{
		Observer: allocation.NopObserver{},
		Recorder: nopRecorder{},
		Progress: func(int, int) {},
	}
}

func (p Params) scale() float64 {
	if p.Scale == 0 {
		return matching.DefaultScale
	}

	return p.Scale
}
