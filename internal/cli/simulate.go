package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinybot-ca/cosy-restaurant/internal/engine"
	"github.com/tinybot-ca/cosy-restaurant/internal/logger"
	"github.com/tinybot-ca/cosy-restaurant/internal/sim"
)

func newSimulateCmd(opts *options) *cobra.Command {
	sc := sim.DefaultScript()

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play one scripted session without a terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

			clock := sim.NewClock(time.Now())
			eng, seed, err := newEngine(cfg, log, engine.WithClock(clock.Now))
			if err != nil {
				return err
			}
			sc.Frame = cfg.FrameInterval()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seed: %d\n", seed)
			_, err = sim.Run(eng, clock, sc, out)
			return err
		},
	}

	cmd.Flags().DurationVar(&sc.Roam, "roam", sc.Roam, "time spent watching the floor")
	cmd.Flags().IntVar(&sc.WrongPlates, "wrong-plates", sc.WrongPlates, "wrong plates served before the right one")
	cmd.Flags().IntSliceVar(&sc.Misses, "misses", nil, "wrong answers per question, e.g. 0,3,1")
	cmd.Flags().DurationVar(&sc.Think, "think", sc.Think, "time taken per answer")
	return cmd
}
