package repository

import (
	"context"
	"sync"
	"time"

	"clearmoney/domain"
)

// PlanRepositoryMemory is an in-memory implementation of PlanRepository.
type PlanRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.PlanRecord
}

// NewPlanRepositoryMemory creates a new in-memory plan repository.
func NewPlanRepositoryMemory() *PlanRepositoryMemory {
	return &PlanRepositoryMemory{
		data: make(map[string]domain.PlanRecord),
	}
}

// Save stores the record in memory, replacing any record with the same ID.
func (r *PlanRepositoryMemory) Save(_ context.Context, record domain.PlanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[record.ID] = record
	return nil
}

func (r *PlanRepositoryMemory) Get(_ context.Context, id string) (domain.PlanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.data[id]
	if !ok {
		return domain.PlanRecord{}, ErrPlanNotFound
	}
	return record, nil
}

func (r *PlanRepositoryMemory) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, record := range r.data {
		if record.CreatedAt.Before(cutoff) {
			delete(r.data, id)
			removed++
		}
	}
	return removed, nil
}
