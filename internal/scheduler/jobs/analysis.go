package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/stockpilot/quant/internal/batch"
	"github.com/stockpilot/quant/pkg/config"
	"github.com/stockpilot/quant/pkg/logger"
)

// AnalysisJob runs the end-of-day analysis batch on schedule.
type AnalysisJob struct {
	orchestrator *batch.Orchestrator
	config       *config.Config
	logger       *logger.Logger
}

// NewAnalysisJob creates the nightly analysis job.
func NewAnalysisJob(orch *batch.Orchestrator, cfg *config.Config, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{
		orchestrator: orch,
		config:       cfg,
		logger:       log,
	}
}

// Name returns the job name.
func (j *AnalysisJob) Name() string {
	return "eod_analysis"
}

// Schedule returns the cron schedule from config; the default fires on
// weekday evenings after the close.
func (j *AnalysisJob) Schedule() string {
	return j.config.Batch.Schedule
}

// Run executes one batch.
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled analysis")

	result, err := j.orchestrator.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("analysis run: %w", err)
	}

	if result.Failed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"failed":   result.Failed,
			"failures": result.Failures,
		}).Warn("Analysis finished with failures")
	}

	return nil
}
