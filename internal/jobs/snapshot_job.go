package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meridian-realty/dashboard-api/internal/auth"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/logger"
	"github.com/meridian-realty/dashboard-api/internal/metrics"
	"github.com/meridian-realty/dashboard-api/internal/storage"
	"go.uber.org/zap"
)

// SnapshotJobName is the name of the overview snapshot job
const SnapshotJobName = "overview_snapshot"

type OverviewBuilder interface {
	Overview(ctx context.Context) (*domain.AnalyticsOverview, error)
}

type AgencyLister interface {
	ListActive(ctx context.Context) ([]domain.Agency, error)
}

// SnapshotJob archives one analytics overview per active agency as JSON
type SnapshotJob struct {
	overviews OverviewBuilder
	agencies  AgencyLister
	archive   storage.Archive
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewSnapshotJob(overviews OverviewBuilder, agencies AgencyLister, archive storage.Archive, log *zap.Logger, timeout time.Duration) *SnapshotJob {
	return &SnapshotJob{
		overviews: overviews,
		agencies:  agencies,
		archive:   archive,
		logger:    logger.WithJob(log, SnapshotJobName),
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time used to name snapshots
func (j *SnapshotJob) WithClock(now func() time.Time) *SnapshotJob {
	j.now = now
	return j
}

// Run is called by the scheduler. A failing agency does not stop the others.
func (j *SnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	written, failed, err := j.SnapshotAll(ctx)
	switch {
	case err != nil:
		metrics.JobRuns.WithLabelValues(SnapshotJobName, "error").Inc()
		j.logger.Error("snapshot run failed", zap.Error(err))
	case failed > 0:
		metrics.JobRuns.WithLabelValues(SnapshotJobName, "partial").Inc()
	default:
		metrics.JobRuns.WithLabelValues(SnapshotJobName, "success").Inc()
	}

	j.logger.Info("snapshot run completed",
		zap.Int("written", written),
		zap.Int("failed", failed),
	)
}

// SnapshotAll writes a snapshot for every active agency and returns the keys
// written and the number of agencies that failed
func (j *SnapshotJob) SnapshotAll(ctx context.Context) (int, int, error) {
	agencies, err := j.agencies.ListActive(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list agencies: %w", err)
	}

	at := j.now()
	written, failed := 0, 0
	for i := range agencies {
		agency := &agencies[i]
		if err := j.snapshot(ctx, agency, at); err != nil {
			failed++
			j.logger.Error("failed to snapshot agency",
				zap.String("agency_id", agency.ID.String()),
				zap.Error(err),
			)
			continue
		}
		written++
	}
	return written, failed, nil
}

func (j *SnapshotJob) snapshot(ctx context.Context, agency *domain.Agency, at time.Time) error {
	id := agency.ID
	scoped := auth.WithAgencyFilter(ctx, &auth.AgencyFilter{AgencyID: &id})

	overview, err := j.overviews.Overview(scoped)
	if err != nil {
		return err
	}

	body, err := json.Marshal(overview)
	if err != nil {
		return fmt.Errorf("failed to encode overview: %w", err)
	}

	key := storage.SnapshotKey(agency.ID, at)
	if _, err := j.archive.Put(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}

	j.logger.Debug("snapshot archived", zap.String("key", key))
	return nil
}
