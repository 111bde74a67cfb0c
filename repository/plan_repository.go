package repository

import (
	"context"
	"errors"
	"time"

	"clearmoney/domain"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository keeps a history of computed comparisons.
type PlanRepository interface {
	Save(ctx context.Context, record domain.PlanRecord) error
	Get(ctx context.Context, id string) (domain.PlanRecord, error)
	// PurgeOlderThan deletes records created before cutoff and returns how
	// many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
