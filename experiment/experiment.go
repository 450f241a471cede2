package experiment

import (
	"context"
	"fmt"
	"runtime"
	"time"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tomonatu8/envy-free-matching/allocation"
	"github.com/tomonatu8/envy-free-matching/evaluate"
	"github.com/tomonatu8/envy-free-matching/matching"
)

// Run executes p.NumTries trials and returns them ordered by index.
//
// The first failing trial cancels the others and its error is returned.
// Cancelling ctx stops scheduling new trials; Run then returns ctx.Err().
func Run(ctx context.Context, p Params, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Observer == nil {
		cfg.Observer = allocation.NopObserver{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.Progress == nil {
		cfg.Progress = func(int, int) {}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &Result{
		RunID:  uuid.New(),
		Params: p,
		Groups: Groups(p.NumGroups, p.NEach),
		Trials: make([]Trial, p.NumTries),
	}
	log.V(1).Infof("experiment %s: %d trials, %d groups of %d, %d items, %d workers",
		res.RunID, p.NumTries, p.NumGroups, p.NEach, p.NumItems, workers)

	start := time.Now()
	done := xsync.NewCounter()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < p.NumTries; i++ {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			began := time.Now()
			tr, err := runTrial(i, res.Groups, p, cfg.Observer)
			tr.Elapsed = time.Since(began)
			cfg.Recorder.ObserveTrial(tr.Elapsed, err == nil && tr.Valuations.EnvyFree(), err)
			if err != nil {
				return fmt.Errorf("experiment: trial %d (seed %d): %w", i, tr.Seed, err)
			}
			res.Trials[i] = tr

			done.Inc()
			cfg.Progress(int(done.Value()), p.NumTries)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)

	return res, nil
}

// runTrial draws preferences for trial index, allocates and evaluates.
func runTrial(index int, groups [][]int, p Params, obs allocation.Observer) (Trial, error) {
	tr := Trial{Index: index, Seed: TrialSeed(p.Seed, index)}

	prefs, err := Preferences(p, index)
	if err != nil {
		return tr, err
	}

	aopts := []allocation.Option{
		allocation.WithObserver(obs),
		allocation.WithScale(p.scale()),
	}
	if p.Incremental {
		aopts = append(aopts, allocation.WithIncremental())
	}
	if tr.Allocation, err = allocation.RoundRobinByGroup(p.NumItems, p.NumGroups, p.NEach, groups, prefs, aopts...); err != nil {
		return tr, err
	}
	if tr.Valuations, err = evaluate.Matrix(groups, tr.Allocation.Bundles, prefs, matching.WithScale(p.scale())); err != nil {
		return tr, err
	}

	if log.V(2) {
		log.Infof("experiment: trial %d seed %d bundles %v utilities %v", index, tr.Seed, tr.Allocation.Bundles, tr.Allocation.Utilities)
	}

	return tr, nil
}

func (p Params) validate() error {
	switch {
	case p.NEach < 1:
		return fmt.Errorf("%w: NEach %d", ErrBadParams, p.NEach)
	case p.NumGroups < 1:
		return fmt.Errorf("%w: NumGroups %d", ErrBadParams, p.NumGroups)
	case p.NumItems < 1:
		return fmt.Errorf("%w: NumItems %d", ErrBadParams, p.NumItems)
	case p.NumTries < 0:
		return fmt.Errorf("%w: NumTries %d", ErrBadParams, p.NumTries)
	case p.Workers < 0:
		return fmt.Errorf("%w: Workers %d", ErrBadParams, p.Workers)
	case p.Scale < 0:
		return fmt.Errorf("%w: Scale %g", ErrBadParams, p.Scale)
	}

	return nil
}
