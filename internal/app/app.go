package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"G2BLeadMiner/internal/config"
	"G2BLeadMiner/internal/g2b"
	"G2BLeadMiner/internal/logging"
	"G2BLeadMiner/internal/scheduler"
	"G2BLeadMiner/internal/usecase"
)

// Application wires config to the pipeline and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	stdout   io.Writer
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := g2b.NewClient(cfg.API.ServiceKey, g2b.ClientOptions{
		BaseURL:     cfg.API.BaseURL,
		Mode:        g2b.WindowMode(cfg.Query.Mode),
		PageSize:    cfg.API.PageSize,
		MaxAttempts: cfg.API.MaxRetries,
		Timeout:     time.Duration(cfg.API.TimeoutSec) * time.Second,
	}, baseLogger.With("component", "g2b"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source: client,
		OutDir: cfg.Output.Dir,
		TopN:   cfg.Query.TopN,
		Logger: baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, stdout: os.Stdout}
}

// Run executes one batch, or keeps re-running on schedule when a cron
// expression is configured.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Scheduler.CronExpression != "" {
		return a.runScheduled(ctx)
	}

	result, err := a.pipeline.Run(ctx, a.cfg.Start, a.cfg.End)
	if err != nil {
		return err
	}
	return printResult(a.stdout, result)
}

func (a *Application) runScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	trailing := time.Duration(a.cfg.Query.TrailingDays) * 24 * time.Hour
	recurring := usecase.NewScheduler(driver, a.pipeline, trailing, a.logger.With("component", "scheduler"))

	if err := recurring.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()
	return recurring.Stop(context.Background())
}

func printResult(w io.Writer, result usecase.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
