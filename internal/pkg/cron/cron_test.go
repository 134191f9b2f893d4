package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerRunsJobAndRecordsSuccess(t *testing.T) {
	sched := New()
	ran := make(chan struct{}, 1)
	sched.Register(Job{
		Name:        "tick",
		Description: "পরীক্ষামূলক কাজ",
		Every:       time.Hour,
		Run: func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	require.NoError(t, sched.Trigger("tick"))
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	assert.Eventually(t, func() bool {
		info, ok := sched.Info("tick")
		return ok && info.Status == "ok" && info.Runs == 1
	}, 2*time.Second, 10*time.Millisecond)

	info, ok := sched.Info("tick")
	require.True(t, ok)
	assert.Zero(t, info.Failures)
	assert.NotNil(t, info.LastRunAt)
	assert.Empty(t, info.LastError)
}

func TestFailedRunIsReported(t *testing.T) {
	sched := New()
	sched.Register(Job{
		Name:  "broken",
		Every: time.Hour,
		Run: func(ctx context.Context) error {
			return errors.New("bucket unreachable")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	require.NoError(t, sched.Trigger("broken"))
	assert.Eventually(t, func() bool {
		info, ok := sched.Info("broken")
		return ok && info.Status == "failed"
	}, 2*time.Second, 10*time.Millisecond)

	info, _ := sched.Info("broken")
	assert.Equal(t, 1, info.Failures)
	assert.Equal(t, "bucket unreachable", info.LastError)
}

func TestTriggerUnknownJob(t *testing.T) {
	sched := New()
	assert.Error(t, sched.Trigger("nope"))
}

func TestSnapshotKeepsRegistrationOrder(t *testing.T) {
	sched := New()
	noop := func(ctx context.Context) error { return nil }
	sched.Register(Job{Name: "first", Every: time.Hour, Run: noop})
	sched.Register(Job{Name: "second", Every: time.Hour, Run: noop})

	infos := sched.Snapshot()
	require.Len(t, infos, 2)
	assert.Equal(t, "first", infos[0].Name)
	assert.Equal(t, "second", infos[1].Name)
	assert.Equal(t, "idle", infos[0].Status)
}
