package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"G2BLeadMiner/internal/domain"
	"G2BLeadMiner/internal/export"
	"G2BLeadMiner/internal/leads"
	"G2BLeadMiner/internal/ports"
)

// Result summarizes one completed run; it is printed as JSON on stdout.
type Result struct {
	RunID          string `json:"run_id"`
	LeadCSV        string `json:"lead_csv"`
	StatsJSON      string `json:"stats_json"`
	RawJSON        string `json:"raw_json"`
	TotalNotices   int    `json:"total_notices"`
	MatchedNotices int    `json:"matched_notices"`
}

// PipelineDeps wires the notice source and output settings into the
// orchestration pipeline.
type PipelineDeps struct {
	Source ports.NoticeSource
	OutDir string
	TopN   int
	Logger *slog.Logger
	Now    func() time.Time
}

// Pipeline implements the fetch → dedupe → classify/score → export workflow.
type Pipeline struct {
	source ports.NoticeSource
	outDir string
	topN   int
	logger *slog.Logger
	now    func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source: deps.Source,
		outDir: deps.OutDir,
		topN:   deps.TopN,
		logger: deps.Logger,
		now:    now,
	}
}

// Run executes one full batch over [start, end]. Every successful run
// writes all three export files, possibly empty ones.
func (p *Pipeline) Run(ctx context.Context, start, end time.Time) (Result, error) {
	runID := uuid.NewString()
	logger := p.logger
	if logger != nil {
		logger = logger.With("run_id", runID)
		logger.Info("run started",
			"start", start.Format("2006-01-02"),
			"end", end.Format("2006-01-02"))
	}

	raw, err := p.source.FetchRange(ctx, start, end)
	if err != nil {
		return Result{}, fmt.Errorf("fetch notices: %w", err)
	}

	deduped := leads.Dedupe(raw)
	if logger != nil {
		logger.Debug("notices fetched", "raw", len(raw), "deduplicated", len(deduped))
	}

	records, stats := leads.Build(deduped, p.now(), p.topN)

	result := Result{
		RunID:          runID,
		LeadCSV:        filepath.Join(p.outDir, export.LeadCSVName),
		StatsJSON:      filepath.Join(p.outDir, export.StatsJSONName),
		RawJSON:        filepath.Join(p.outDir, export.RawJSONName),
		TotalNotices:   stats.TotalNotices,
		MatchedNotices: stats.MatchedNotices,
	}

	if err := export.WriteLeadsCSV(result.LeadCSV, records); err != nil {
		return Result{}, fmt.Errorf("export leads: %w", err)
	}
	if err := export.WriteJSON(result.StatsJSON, stats); err != nil {
		return Result{}, fmt.Errorf("export stats: %w", err)
	}

	rawPayload := struct {
		Count int                `json:"count"`
		Items []domain.RawNotice `json:"items"`
	}{Count: len(deduped), Items: deduped}
	if err := export.WriteJSON(result.RawJSON, rawPayload); err != nil {
		return Result{}, fmt.Errorf("export raw notices: %w", err)
	}

	if logger != nil {
		logger.Info("run finished",
			"total_notices", stats.TotalNotices,
			"matched_notices", stats.MatchedNotices,
			"exported_leads", len(records))
	}
	return result, nil
}
