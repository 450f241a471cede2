package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/urfave/cli/v2"

	"github.com/tomonatu8/envy-free-matching/allocation"
	"github.com/tomonatu8/envy-free-matching/evaluate"
	"github.com/tomonatu8/envy-free-matching/experiment"
	"github.com/tomonatu8/envy-free-matching/internal/config"
	"github.com/tomonatu8/envy-free-matching/matching"
)

var allocateCmd = &cli.Command{
	Name:    "allocate",
	Usage:   "Run one allocation and print every claim",
	Aliases: []string{"a"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "specify a YAML config file; flags override its values",
		},
		&cli.IntFlag{Name: "n-each", Value: 2, Usage: "agents per group and bundle size"},
		&cli.IntFlag{Name: "groups", Value: 2, Usage: "number of groups"},
		&cli.IntFlag{Name: "items", Value: 4, Usage: "number of items"},
		&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "random seed"},
		&cli.IntFlag{Name: "trial", Value: 0, Usage: "trial index the preferences are drawn for"},
		&cli.BoolFlag{Name: "incremental", Usage: "warm-start matchings between rounds"},
		&cli.Float64Flag{Name: "scale", Usage: "valuation scale for integer matching weights"},
	},
	Action: func(ctx *cli.Context) error {
		p, err := allocateParams(ctx)
		if err != nil {
			return err
		}
		return doAllocate(p, ctx.Int("trial"))
	},
}

// allocateParams starts from the flag defaults, or from --config when given,
// and applies explicitly set flags on top.
func allocateParams(ctx *cli.Context) (experiment.Params, error) {
	p := experiment.Params{
		NEach:       ctx.Int("n-each"),
		NumGroups:   ctx.Int("groups"),
		NumItems:    ctx.Int("items"),
		Seed:        ctx.Uint64("seed"),
		Incremental: ctx.Bool("incremental"),
		Scale:       config.Default().Allocation.Scale,
	}
	if path := ctx.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return experiment.Params{}, err
		}
		p = params(cfg)
		if ctx.IsSet("n-each") {
			p.NEach = ctx.Int("n-each")
		}
		if ctx.IsSet("groups") {
			p.NumGroups = ctx.Int("groups")
		}
		if ctx.IsSet("items") {
			p.NumItems = ctx.Int("items")
		}
		if ctx.IsSet("seed") {
			p.Seed = ctx.Uint64("seed")
		}
		if ctx.IsSet("incremental") {
			p.Incremental = ctx.Bool("incremental")
		}
	}
	if ctx.IsSet("scale") {
		p.Scale = ctx.Float64("scale")
	}

	if p.NEach < 1 || p.NumGroups < 1 || p.NumItems < 1 {
		return experiment.Params{}, errors.New("n-each, groups and items must be positive")
	}
	if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
		return experiment.Params{}, fmt.Errorf("scale must be positive and finite, got %g", p.Scale)
	}

	return p, nil
}

func doAllocate(p experiment.Params, trial int) error {
	prefs, err := experiment.Preferences(p, trial)
	if err != nil {
		return err
	}
	groups := experiment.Groups(p.NumGroups, p.NEach)

	opts := []allocation.Option{allocation.WithScale(p.Scale)}
	if p.Incremental {
		opts = append(opts, allocation.WithIncremental())
	}
	res, err := allocation.RoundRobinByGroup(p.NumItems, p.NumGroups, p.NEach, groups, prefs, opts...)
	if err != nil {
		return err
	}
	for _, c := range res.Claims {
		fmt.Printf("round %d: group %d takes item %d (utility %.4f)\n", c.Round, c.Group, c.Item, c.Utility)
	}

	v, err := evaluate.Matrix(groups, res.Bundles, prefs, matching.WithScale(p.Scale))
	if err != nil {
		return err
	}
	envy := v.Envy()
	for g, b := range res.Bundles {
		fmt.Printf("group %d agents %v bundle %v utility %.4f envy %.4f\n", g, groups[g], b, res.Utilities[g], envy[g])
	}
	fmt.Println("envy-free:", v.EnvyFree())

	return nil
}
