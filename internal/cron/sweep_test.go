package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

type fakeSweeper struct {
	cutoff time.Time
	calls  int
	rows   int64
	err    error
}

func (f *fakeSweeper) sweep(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.rows, f.err
}

func (f *fakeSweeper) DeleteExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.sweep(ctx, cutoff)
}

func (f *fakeSweeper) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.sweep(ctx, cutoff)
}

func (f *fakeSweeper) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.sweep(ctx, cutoff)
}

func (f *fakeSweeper) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.sweep(ctx, cutoff)
}

func TestSweepJobCutoffs(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	logg := logger.Nop()

	cases := []struct {
		name  string
		build func(*fakeSweeper) (Job, error)
		age   time.Duration
	}{
		{"otp-cleanup", func(f *fakeSweeper) (Job, error) {
			return NewOTPCleanupJob(OTPCleanupJobParams{Logger: logg, Repository: f})
		}, 24 * time.Hour},
		{"outbox-retention", func(f *fakeSweeper) (Job, error) {
			return NewOutboxRetentionJob(OutboxRetentionJobParams{Logger: logg, Repository: f})
		}, 30 * 24 * time.Hour},
		{"notification-cleanup", func(f *fakeSweeper) (Job, error) {
			return NewNotificationCleanupJob(NotificationCleanupJobParams{Logger: logg, Repository: f})
		}, 90 * 24 * time.Hour},
		{"partner-offline-sweep", func(f *fakeSweeper) (Job, error) {
			return NewPartnerOfflineJob(PartnerOfflineJobParams{Logger: logg, Repository: f})
		}, 30 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeSweeper{rows: 4}
			job, err := tc.build(repo)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if job.Name() != tc.name {
				t.Fatalf("expected name %s, got %s", tc.name, job.Name())
			}
			job.(*sweepJob).now = func() time.Time { return now }

			rows, err := job.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if rows != 4 {
				t.Fatalf("expected 4 rows, got %d", rows)
			}
			if want := now.Add(-tc.age); !repo.cutoff.Equal(want) {
				t.Fatalf("expected cutoff %s, got %s", want, repo.cutoff)
			}
		})
	}
}

func TestSweepJobOverridesAndErrors(t *testing.T) {
	repo := &fakeSweeper{err: errors.New("boom")}
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{Logger: logger.Nop(), Repository: repo, Retention: time.Hour})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	job.(*sweepJob).now = func() time.Time { return now }
	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !repo.cutoff.Equal(now.Add(-time.Hour)) {
		t.Fatalf("expected custom retention, got cutoff %s", repo.cutoff)
	}

	if _, err := NewOTPCleanupJob(OTPCleanupJobParams{Logger: logger.Nop()}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewPartnerOfflineJob(PartnerOfflineJobParams{Repository: repo}); err == nil {
		t.Fatal("expected error without logger")
	}
}
