package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	log "github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/tomonatu8/envy-free-matching/experiment"
	"github.com/tomonatu8/envy-free-matching/internal/config"
	"github.com/tomonatu8/envy-free-matching/internal/metrics"
	"github.com/tomonatu8/envy-free-matching/internal/report"
)

var runCmd = &cli.Command{
	Name:    "run",
	Usage:   "Run repeated random trials and write outcome CSV files",
	Aliases: []string{"r"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "specify a YAML config file; flags override its values",
		},
		&cli.IntFlag{Name: "n-each", Usage: "agents per group and bundle size"},
		&cli.IntFlag{Name: "groups", Usage: "number of groups"},
		&cli.IntFlag{Name: "items", Usage: "number of items"},
		&cli.IntFlag{Name: "tries", Usage: "number of trials"},
		&cli.Uint64Flag{Name: "seed", Usage: "base random seed"},
		&cli.IntFlag{Name: "workers", Usage: "concurrent trials (0 = all CPUs)"},
		&cli.StringFlag{Name: "out", Usage: "output directory for CSV files"},
		&cli.BoolFlag{Name: "incremental", Usage: "warm-start matchings between rounds"},
		&cli.StringFlag{Name: "metrics-out", Usage: "write Prometheus metrics to this file"},
		&cli.BoolFlag{Name: "quiet", Usage: "do not draw the progress bar"},
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		return doRun(ctx.Context, cfg)
	},
}

// loadConfig reads --config (or the defaults) and applies explicit flags.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	e := &cfg.Experiment
	if ctx.IsSet("n-each") {
		e.NEach = ctx.Int("n-each")
	}
	if ctx.IsSet("groups") {
		e.NumGroups = ctx.Int("groups")
	}
	if ctx.IsSet("items") {
		e.NumItems = ctx.Int("items")
	}
	if ctx.IsSet("tries") {
		e.NumTries = ctx.Int("tries")
	}
	if ctx.IsSet("seed") {
		e.Seed = ctx.Uint64("seed")
	}
	if ctx.IsSet("workers") {
		e.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("out") {
		cfg.Output.Dir = ctx.String("out")
	}
	if ctx.IsSet("incremental") {
		cfg.Allocation.Incremental = ctx.Bool("incremental")
	}
	if ctx.IsSet("metrics-out") {
		cfg.Output.MetricsFile = ctx.String("metrics-out")
	}
	if ctx.Bool("quiet") {
		cfg.Output.Progress = false
	}

	return cfg, cfg.Validate()
}

func params(cfg config.Config) experiment.Params {
	return experiment.Params{
		NEach:       cfg.Experiment.NEach,
		NumGroups:   cfg.Experiment.NumGroups,
		NumItems:    cfg.Experiment.NumItems,
		NumTries:    cfg.Experiment.NumTries,
		Seed:        cfg.Experiment.Seed,
		Workers:     cfg.Experiment.Workers,
		Incremental: cfg.Allocation.Incremental,
		Scale:       cfg.Allocation.Scale,
	}
}

func doRun(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(reg, "")
	opts := []experiment.Option{
		experiment.WithObserver(collector),
		experiment.WithRecorder(collector),
	}
	var bar *report.Progress
	if cfg.Output.Progress {
		bar = report.NewProgress(os.Stderr, 40)
		opts = append(opts, experiment.WithProgress(bar.Update))
	}

	res, err := experiment.Run(ctx, params(cfg), opts...)
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		return err
	}
	log.V(1).Infof("run %s finished %d trials in %s", res.RunID, len(res.Trials), res.Elapsed)

	files, err := report.WriteCSV(cfg.Output.Dir, res)
	if err != nil {
		return err
	}
	if path := cfg.Output.MetricsFile; path != "" {
		if err = metrics.WriteTextfile(reg, path); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		files = append(files, path)
	}

	fmt.Println(report.Summary(res, files))

	return nil
}
