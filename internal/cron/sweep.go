package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// sweepFunc applies one bulk statement to rows older than cutoff.
type sweepFunc func(ctx context.Context, cutoff time.Time) (int64, error)

// sweepJob runs a sweepFunc with a cutoff of now minus age.
type sweepJob struct {
	name string
	logg *logger.Logger
	age  time.Duration
	run  sweepFunc
	now  func() time.Time
}

func newSweepJob(name string, logg *logger.Logger, age, fallback time.Duration, run sweepFunc) (*sweepJob, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if run == nil {
		return nil, fmt.Errorf("%s: repository required", name)
	}
	if age <= 0 {
		age = fallback
	}
	return &sweepJob{name: name, logg: logg, age: age, run: run, now: time.Now}, nil
}

func (j *sweepJob) Name() string { return j.name }

func (j *sweepJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.age)
	rows, err := j.run(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", j.name, err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"age":           j.age.String(),
		"rows_affected": rows,
	})
	j.logg.Info(logCtx, j.name+" complete")
	return rows, nil
}
