package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aescanero/scenario/internal/config"
	"github.com/aescanero/scenario/internal/models"
)

// app holds the state shared by the commands of one process
type app struct {
	registry *models.Registry
	cfg      *config.Config
	logger   *zap.Logger

	logLevel string
	noPace   bool

	sleep func(time.Duration)
}

func newApp(registry *models.Registry) *app {
	return &app{
		registry: registry,
		logger:   zap.NewNop(),
		sleep:    time.Sleep,
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "scenario",
		Short: "Scenario computation workers",
		Long: `Scenario computation workers read a JSON object of parameters on stdin
and write their result on stdout.

Single-shot workers print one JSON line. Streaming workers print
STATUS:, PROGRESS: and a final RESULT: line. Diagnostics go to stderr.

Examples:
  echo '{"proposed_price": 12}' | scenario pricing-elasticity
  scenario cge < /dev/null
  scenario defaults churn-risk --format yaml`,
		Version:           fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level on stderr: debug, info, warn or error (overrides LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&a.noPace, "no-pace", false,
		"skip the delays between streamed events")

	for _, m := range a.registry.Models() {
		root.AddCommand(a.workerCommand(m))
	}
	root.AddCommand(a.listCommand())
	root.AddCommand(a.defaultsCommand())

	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
// Invalid environment settings fall back to defaults with a warning; only
// an explicit --log-level is rejected.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, warnings := config.Load()

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	if a.noPace {
		cfg.Pacing.Enabled = false
	}

	a.cfg = cfg
	a.logger = initLogger(cfg.LogLevel, cmd.ErrOrStderr())
	for _, w := range warnings {
		a.logger.Warn("ignoring invalid setting", zap.Error(w))
	}
	return nil
}
