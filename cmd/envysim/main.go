// Command envysim runs round-robin group allocations on random preferences
// and reports how each group values the others' bundles.
package main

import (
	"flag"
	"os"
	"strconv"

	log "github.com/golang/glog"
	"github.com/urfave/cli/v2"
)

func main() {
	// glog reads its settings from the standard flag set.
	_ = flag.Set("logtostderr", "true")

	app := &cli.App{
		Name:  "envysim",
		Usage: "Simulate group round-robin allocation with exact bundle matching",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "verbosity",
				Value: 0,
				Usage: "log verbosity (1 = rounds, 2 = augmentations)",
			},
		},
		Before: func(ctx *cli.Context) error {
			return flag.Set("v", strconv.Itoa(ctx.Int("verbosity")))
		},
		After: func(*cli.Context) error {
			log.Flush()
			return nil
		},
		Commands: []*cli.Command{
			runCmd,
			allocateCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Exitf("envysim: %v", err)
	}
}
