package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/vinzencor/student-management-backend/pkg/logger"
)

// OverdueJobParams configure the overdue sweep job.
type OverdueJobParams struct {
	Logger     *logger.Logger
	Repository overdueSweepRepo
}

type overdueSweepRepo interface {
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// NewOverdueJob builds the job that flips pending ledger entries past their
// due date to overdue. This is the only place the overdue status is derived;
// reads never recompute it from dates.
func NewOverdueJob(params OverdueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("fee repository required")
	}
	return &overdueJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type overdueJob struct {
	logg *logger.Logger
	repo overdueSweepRepo
	now  func() time.Time
}

func (j *overdueJob) Name() string { return "overdue-sweep" }

func (j *overdueJob) Run(ctx context.Context) error {
	asOf := j.now().UTC()
	flipped, err := j.repo.MarkOverdue(ctx, asOf)
	if err != nil {
		return fmt.Errorf("overdue sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"as_of":        asOf,
		"rows_flipped": flipped,
	})
	j.logg.Info(logCtx, "overdue sweep complete")
	return nil
}
