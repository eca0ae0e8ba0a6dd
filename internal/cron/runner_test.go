package cronrunner_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cronrunner "cartel47-backend/internal/cron"
)

func TestRunnerRejectsBadSpec(t *testing.T) {
	r := cronrunner.New(zap.NewNop(), context.Background())

	_, err := r.Add("not a schedule", func(context.Context) {})
	assert.Error(t, err)
	assert.Equal(t, 0, r.Entries())
}

func TestRunnerRunsSweep(t *testing.T) {
	r := cronrunner.New(nil, nil)

	var runs atomic.Int32
	_, err := r.AddSweep("@every 1s", "test", func() int {
		runs.Add(1)
		return 1
	})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Entries())

	r.Start()
	defer r.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
