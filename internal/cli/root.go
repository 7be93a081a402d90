package cli

import (
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tinybot-ca/cosy-restaurant/internal/config"
	"github.com/tinybot-ca/cosy-restaurant/internal/engine"
	"github.com/tinybot-ca/cosy-restaurant/internal/models"
)

type options struct {
	configPath string
	seed       int64
	logLevel   string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "cafe",
		Short:        "A cosy café: wandering guests, a kitchen order and a times-table quiz",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CAFE_CONFIG"), "path to YAML config")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed (0 uses the config or a fresh seed)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides config and LOG_LEVEL")
	cmd.AddCommand(newPlayCmd(opts))
	cmd.AddCommand(newSimulateCmd(opts))
	cmd.AddCommand(newCatalogCmd(opts))
	return cmd
}

// load reads the config and applies flag overrides on top.
func (o *options) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func loadCatalog(cfg config.Config) (*models.Catalog, error) {
	if cfg.Catalog == "" {
		return models.DefaultCatalog()
	}
	return models.LoadCatalog(cfg.Catalog)
}

// newEngine wires the configured settings, catalog and seed into an engine.
func newEngine(cfg config.Config, log logrus.FieldLogger, opts ...engine.Option) (*engine.Engine, int64, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, 0, err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, 0, err
	}
	seed, err := cfg.ResolveSeed()
	if err != nil {
		return nil, 0, err
	}

	opts = append([]engine.Option{
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithLogger(log.WithField("seed", seed)),
	}, opts...)
	eng, err := engine.NewEngine(settings, catalog, opts...)
	if err != nil {
		return nil, 0, err
	}
	return eng, seed, nil
}
