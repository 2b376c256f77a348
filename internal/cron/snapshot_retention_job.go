package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

const snapshotRetentionJobName = "cart-snapshot-retention"

// snapshotPurger deletes cart snapshots that expired at or before cutoff.
type snapshotPurger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type SnapshotRetentionJobParams struct {
	Logger  *logger.Logger
	Purger  snapshotPurger
	Metrics *metrics.JobMetrics
	// Grace keeps snapshots around for a while after they expire.
	Grace time.Duration
}

// NewSnapshotRetentionJob removes expired cart snapshots from the SQL store.
func NewSnapshotRetentionJob(params SnapshotRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Purger == nil {
		return nil, fmt.Errorf("snapshot purger required")
	}
	grace := params.Grace
	if grace < 0 {
		grace = 0
	}
	return &snapshotRetentionJob{
		logg:    params.Logger,
		purger:  params.Purger,
		metrics: params.Metrics,
		grace:   grace,
		now:     time.Now,
	}, nil
}

type snapshotRetentionJob struct {
	logg    *logger.Logger
	purger  snapshotPurger
	metrics *metrics.JobMetrics
	grace   time.Duration
	now     func() time.Time
}

func (j *snapshotRetentionJob) Name() string { return snapshotRetentionJobName }

func (j *snapshotRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.grace)
	deleted, err := j.purger.PurgeExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("snapshot retention: %w", err)
	}
	j.metrics.AddRowsDeleted(snapshotRetentionJobName, deleted)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "cart snapshot retention complete")
	return nil
}
