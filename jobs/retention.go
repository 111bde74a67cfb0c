package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Purger deletes plans older than maxAge.
type Purger interface {
	PurgeExpired(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Retention periodically purges the plan history.
type Retention struct {
	cron    *cron.Cron
	purger  Purger
	maxAge  time.Duration
	timeout time.Duration
	log     *logrus.Logger
}

// NewRetention schedules the purge on a standard cron spec or descriptor
// such as "@daily".
func NewRetention(schedule string, maxAge time.Duration, purger Purger, log *logrus.Logger) (*Retention, error) {
	r := &Retention{
		cron:    cron.New(),
		purger:  purger,
		maxAge:  maxAge,
		timeout: time.Minute,
		log:     log,
	}
	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return nil, fmt.Errorf("schedule retention %q: %w", schedule, err)
	}
	return r, nil
}

// Run performs a single purge.
func (r *Retention) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	removed, err := r.purger.PurgeExpired(ctx, r.maxAge)
	if err != nil {
		r.log.WithError(err).Error("plan retention failed")
		return
	}
	r.log.WithFields(logrus.Fields{"removed": removed, "max_age": r.maxAge.String()}).Info("plan retention finished")
}

func (r *Retention) Start() {
	r.cron.Start()
}

// Stop halts the scheduler and waits for a running purge to finish or ctx
// to expire.
func (r *Retention) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}
