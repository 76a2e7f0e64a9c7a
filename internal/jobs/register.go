package jobs

import (
	"fmt"

	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/storage"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the scheduled jobs need. Archive may be
// nil, in which case snapshots are not scheduled.
type Dependencies struct {
	Stalls    StallReporter
	Marker    StallMarker
	Overviews OverviewBuilder
	Agencies  AgencyLister
	Archive   storage.Archive
}

// RegisterJobs adds every configured job to the scheduler. An empty cron
// expression disables that job.
func RegisterJobs(scheduler *Scheduler, cfg *config.JobsConfig, deps Dependencies, logger *zap.Logger) error {
	timeout := cfg.TimeoutDuration()

	if cfg.StallScanCron != "" {
		job := NewStallScanJob(deps.Stalls, deps.Marker, logger, timeout)
		if err := scheduler.AddJob(StallScanJobName, cfg.StallScanCron, job.Run); err != nil {
			return fmt.Errorf("stall scan: %w", err)
		}
	}

	if cfg.SnapshotCron != "" {
		if deps.Archive == nil {
			logger.Warn("snapshot job disabled: no archive configured")
			return nil
		}
		job := NewSnapshotJob(deps.Overviews, deps.Agencies, deps.Archive, logger, timeout)
		if err := scheduler.AddJob(SnapshotJobName, cfg.SnapshotCron, job.Run); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}

	return nil
}
