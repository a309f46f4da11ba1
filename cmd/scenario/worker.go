package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aescanero/scenario/internal/models"
	"github.com/aescanero/scenario/internal/protocol"
	"github.com/aescanero/scenario/internal/runner"
	"github.com/aescanero/scenario/internal/tracing"
	"github.com/aescanero/scenario/pkg/adapters/metrics/prometheus"
)

func (a *app) workerCommand(m models.Model) *cobra.Command {
	info := m.Info()
	return &cobra.Command{
		Use:     info.Name,
		Aliases: info.Aliases,
		Short:   info.Description,
		Long: fmt.Sprintf("%s.\n\nReads a JSON object on stdin and writes a %s result on stdout.\nRun 'scenario defaults %s' for the accepted parameters.",
			info.Description, info.Mode, info.Name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWorker(cmd, m)
		},
	}
}

func (a *app) runWorker(cmd *cobra.Command, m models.Model) error {
	defer func() { _ = a.logger.Sync() }()

	tcfg := tracing.DefaultConfig()
	tcfg.Enabled = a.cfg.Tracing.Enabled
	tcfg.Exporter = a.cfg.Tracing.Exporter
	tcfg.FilePath = a.cfg.Tracing.FilePath
	tcfg.SampleRate = a.cfg.Tracing.SampleRate
	tcfg.Writer = cmd.ErrOrStderr()

	provider, err := tracing.NewProvider(tcfg)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			a.logger.Warn("tracing shutdown error", zap.Error(err))
		}
	}()

	collector := prometheus.NewCollector()
	r := runner.New(a.logger,
		runner.WithMetrics(collector),
		runner.WithTracer(provider.Tracer()),
		runner.WithPacing(a.cfg.PaceDelay),
		runner.WithSleeper(a.sleep),
	)

	_, runErr := r.Run(cmd.Context(), m, cmd.InOrStdin(), protocol.NewWriterSink(cmd.OutOrStdout()))

	if path := a.cfg.Metrics.TextfilePath; path != "" {
		if err := collector.WriteTextfile(path); err != nil {
			a.logger.Warn("metrics export failed", zap.String("path", path), zap.Error(err))
		}
	}

	return runErr
}
