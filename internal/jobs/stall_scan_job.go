package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/meridian-realty/dashboard-api/internal/logger"
	"github.com/meridian-realty/dashboard-api/internal/metrics"
	"go.uber.org/zap"
)

// StallScanJobName is the name of the stall scan job
const StallScanJobName = "stall_scan"

// StallReporter produces the stall report over the journeys visible in ctx.
// A context without a user sees every agency.
type StallReporter interface {
	StallReport(ctx context.Context, cfg *analytics.StallConfig) (*analytics.StallReport, error)
}

// StallMarker persists the stalling flag
type StallMarker interface {
	MarkStalling(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// StallScanJob classifies every deal journey, publishes the health counts as
// gauges and flags journeys that have sat in a stage past the critical
// threshold so list endpoints and later reports see them as stalling.
type StallScanJob struct {
	reporter StallReporter
	marker   StallMarker
	logger   *zap.Logger
	timeout  time.Duration
}

func NewStallScanJob(reporter StallReporter, marker StallMarker, log *zap.Logger, timeout time.Duration) *StallScanJob {
	return &StallScanJob{
		reporter: reporter,
		marker:   marker,
		logger:   logger.WithJob(log, StallScanJobName),
		timeout:  timeout,
	}
}

// Run is called by the scheduler
func (j *StallScanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.scan(ctx); err != nil {
		metrics.JobRuns.WithLabelValues(StallScanJobName, "error").Inc()
		j.logger.Error("stall scan failed", zap.Error(err))
		return
	}
	metrics.JobRuns.WithLabelValues(StallScanJobName, "success").Inc()
}

func (j *StallScanJob) scan(ctx context.Context) error {
	start := time.Now()

	report, err := j.reporter.StallReport(ctx, nil)
	if err != nil {
		return err
	}

	metrics.DealsByHealth.WithLabelValues(string(analytics.HealthStalled)).Set(float64(len(report.Stalled)))
	metrics.DealsByHealth.WithLabelValues(string(analytics.HealthAtRisk)).Set(float64(len(report.AtRisk)))
	metrics.DealsByHealth.WithLabelValues(string(analytics.HealthHealthy)).Set(float64(len(report.Healthy)))

	ids := newlyStalled(report.Stalled, j.logger)
	marked, err := j.marker.MarkStalling(ctx, ids)
	if err != nil {
		return err
	}

	j.logger.Info("stall scan completed",
		zap.Int("stalled", len(report.Stalled)),
		zap.Int("at_risk", len(report.AtRisk)),
		zap.Int("healthy", len(report.Healthy)),
		zap.Int64("newly_flagged", marked),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// newlyStalled returns the IDs of stalled journeys not yet flagged. Closed
// deals are finished, not stuck, and are never flagged.
func newlyStalled(stalled []analytics.DealLifecycleRecord, log *zap.Logger) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(stalled))
	for _, record := range stalled {
		if record.IsStalling || record.CurrentStage == analytics.StageClosed {
			continue
		}
		id, err := uuid.Parse(record.ID)
		if err != nil {
			log.Warn("skipping journey with malformed id", zap.String("journey_id", record.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
