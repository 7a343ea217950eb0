package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/foamwash/foamwash-backend/pkg/logger"
	"gorm.io/gorm"
)

const defaultCartRetentionDays = 14

// StaleCartJobParams configure the abandoned-cart cleanup.
type StaleCartJobParams struct {
	Logger    *logger.Logger
	DB        *gorm.DB
	Retention int
}

// NewStaleCartJob cancels open carts that have not been touched for the
// retention window, so abandoned sessions do not pile up.
func NewStaleCartJob(params StaleCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultCartRetentionDays
	}
	return &staleCartJob{
		logg:      params.Logger,
		db:        params.DB,
		retention: retention,
		now:       time.Now,
	}, nil
}

type staleCartJob struct {
	logg      *logger.Logger
	db        *gorm.DB
	retention int
	now       func() time.Time
}

func (j *staleCartJob) Name() string { return "stale-cart-cleanup" }

func (j *staleCartJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-time.Duration(j.retention) * 24 * time.Hour)

	result := j.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("closed_at IS NULL AND updated_at < ?", cutoff).
		Updates(map[string]any{
			"flow_state": enums.FlowStateCancelled,
			"closed_at":  now,
		})
	if result.Error != nil {
		return fmt.Errorf("stale cart cleanup: %w", result.Error)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":      cutoff,
		"rows_closed": result.RowsAffected,
	})
	j.logg.Info(logCtx, "stale cart cleanup complete")
	return nil
}
