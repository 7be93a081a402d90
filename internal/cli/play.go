package cli

import (
	"github.com/spf13/cobra"

	"github.com/tinybot-ca/cosy-restaurant/internal/logger"
	"github.com/tinybot-ca/cosy-restaurant/internal/tui"
)

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the café in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			log, closeLog, err := logger.NewFile(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
			if err != nil {
				return err
			}
			defer closeLog()

			eng, seed, err := newEngine(cfg, log)
			if err != nil {
				return err
			}
			log.WithField("seed", seed).Info("café open")
			return tui.Run(eng, cfg.FrameInterval())
		},
	}
}
