package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListSortedWithIdleStatus(t *testing.T) {
	s := New()
	s.Register(Job{Name: "purge_sessions", Description: "purge", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	s.Register(Job{Name: "backfill_names", Description: "backfill", Interval: time.Hour, Fn: func(context.Context) error { return nil }})

	items := s.List()
	require.Len(t, items, 2)
	require.Equal(t, "backfill_names", items[0].Name)
	require.Equal(t, "purge_sessions", items[1].Name)
	require.Equal(t, StatusIdle, items[0].Status)
	require.Nil(t, items[0].LastRunAt)
}

func TestRunRecordsOutcome(t *testing.T) {
	s := New()
	ran := 0
	s.Register(Job{Name: "ok_job", Interval: time.Hour, Fn: func(context.Context) error {
		ran++
		return nil
	}})
	s.Register(Job{Name: "bad_job", Interval: time.Hour, Fn: func(context.Context) error {
		return errors.New("store unavailable")
	}})

	require.NoError(t, s.Run(context.Background(), "ok_job"))
	require.Equal(t, 1, ran)

	sum, err := s.Status("ok_job")
	require.NoError(t, err)
	require.Equal(t, StatusOK, sum.Status)
	require.Empty(t, sum.Error)
	require.NotNil(t, sum.LastRunAt)

	require.Error(t, s.Run(context.Background(), "bad_job"))
	sum, err = s.Status("bad_job")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, sum.Status)
	require.Equal(t, "store unavailable", sum.Error)
}

func TestRunUnknownJob(t *testing.T) {
	s := New()
	require.ErrorIs(t, s.Run(context.Background(), "nope"), ErrUnknownJob)

	_, err := s.Status("nope")
	require.ErrorIs(t, err, ErrUnknownJob)
}

func TestRunClearsPreviousError(t *testing.T) {
	s := New()
	fail := true
	s.Register(Job{Name: "flaky", Interval: time.Hour, Fn: func(context.Context) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}})

	require.Error(t, s.Run(context.Background(), "flaky"))
	fail = false
	require.NoError(t, s.Run(context.Background(), "flaky"))

	sum, err := s.Status("flaky")
	require.NoError(t, err)
	require.Equal(t, StatusOK, sum.Status)
	require.Empty(t, sum.Error)
}
