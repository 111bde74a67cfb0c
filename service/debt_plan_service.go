package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clearmoney/domain"
	"clearmoney/repository"
)

// ErrUnknownStrategy is returned for a strategy other than snowball or avalanche.
var ErrUnknownStrategy = errors.New("unknown strategy")

type cachedComparison struct {
	PlanID string                  `json:"planId"`
	Result domain.ComparisonResult `json:"result"`
}

// DebtPlanService sanitizes requests, runs the payoff engine and keeps the
// cache and plan history up to date. Cache and history failures are logged
// and never fail a request.
type DebtPlanService struct {
	cache  repository.CacheRepository
	plans  repository.PlanRepository
	log    *logrus.Logger
	opts   SimulationOptions
	limits Limits
	now    func() time.Time
}

func NewDebtPlanService(
	cache repository.CacheRepository,
	plans repository.PlanRepository,
	log *logrus.Logger,
	opts SimulationOptions,
	limits Limits,
) *DebtPlanService {
	return &DebtPlanService{
		cache:  cache,
		plans:  plans,
		log:    log,
		opts:   opts,
		limits: limits,
		now:    time.Now,
	}
}

// Compare runs snowball and avalanche on input and stores the comparison.
func (s *DebtPlanService) Compare(
	ctx context.Context,
	input domain.PayoffInput,
) (domain.ComparisonReport, error) {

	clean, err := SanitizeInput(input, s.limits)
	if err != nil {
		return domain.ComparisonReport{}, err
	}

	hash, err := inputHash(clean, s.opts.maxMonths())
	if err != nil {
		return domain.ComparisonReport{}, fmt.Errorf("hash input: %w", err)
	}
	key := "compare:" + hash
	logger := s.log.WithFields(logrus.Fields{"input_hash": hash, "debts": len(clean.Debts)})

	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached cachedComparison
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			logger.Debug("comparison served from cache")
			return domain.ComparisonReport{
				PlanID:           cached.PlanID,
				Cached:           true,
				ComparisonResult: cached.Result,
			}, nil
		}
		logger.Warn("discarding undecodable cache entry")
	}

	result := Compare(clean, s.opts)
	if !result.Snowball.Completed || !result.Avalanche.Completed {
		logger.WithField("max_months", s.opts.maxMonths()).
			Warn("payoff not completed within the month cap")
	}

	planID := uuid.NewString()
	encoded, err := json.Marshal(result)
	if err != nil {
		return domain.ComparisonReport{}, fmt.Errorf("encode comparison: %w", err)
	}

	record := domain.PlanRecord{
		ID:        planID,
		CreatedAt: s.now().UTC(),
		InputHash: hash,
		Input:     clean,
		Result:    encoded,
	}
	if err := s.plans.Save(ctx, record); err != nil {
		logger.WithError(err).Warn("failed to save plan")
		planID = ""
	}

	if entry, err := json.Marshal(cachedComparison{PlanID: planID, Result: result}); err == nil {
		if err := s.cache.Set(ctx, key, string(entry)); err != nil {
			logger.WithError(err).Warn("failed to cache comparison")
		}
	}

	logger.WithFields(logrus.Fields{
		"plan_id":        planID,
		"interest_saved": result.InterestSaved,
	}).Info("comparison computed")

	return domain.ComparisonReport{
		PlanID:           planID,
		ComparisonResult: result,
	}, nil
}

// Simulate runs a single strategy. Results are cached but not stored in the
// plan history.
func (s *DebtPlanService) Simulate(
	ctx context.Context,
	input domain.PayoffInput,
	strategy domain.Strategy,
) (domain.MethodResult, error) {

	if !strategy.Valid() {
		return domain.MethodResult{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	clean, err := SanitizeInput(input, s.limits)
	if err != nil {
		return domain.MethodResult{}, err
	}

	hash, err := inputHash(clean, s.opts.maxMonths())
	if err != nil {
		return domain.MethodResult{}, fmt.Errorf("hash input: %w", err)
	}
	key := "simulate:" + string(strategy) + ":" + hash

	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.MethodResult
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	result := Simulate(clean.Debts, clean.ExtraPayment, strategy, s.opts)

	if entry, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(entry)); err != nil {
			s.log.WithError(err).WithField("input_hash", hash).Warn("failed to cache simulation")
		}
	}
	return result, nil
}

// GetPlan returns a stored comparison. IDs that are not UUIDs are reported
// as not found.
func (s *DebtPlanService) GetPlan(ctx context.Context, id string) (domain.PlanRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.PlanRecord{}, repository.ErrPlanNotFound
	}
	return s.plans.Get(ctx, id)
}

// PurgeExpired removes plans older than maxAge.
func (s *DebtPlanService) PurgeExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.plans.PurgeOlderThan(ctx, s.now().Add(-maxAge))
}
