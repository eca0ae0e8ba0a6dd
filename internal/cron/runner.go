// Package cronrunner schedules background maintenance such as the nonce
// sweep.
package cronrunner

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

// AddSweep schedules sweep and logs how many entries each run removed.
func (r *Runner) AddSweep(spec, name string, sweep func() int) (cron.EntryID, error) {
	return r.Add(spec, func(context.Context) {
		if removed := sweep(); removed > 0 {
			r.logger.Debug("sweep finished", zap.String("job", name), zap.Int("removed", removed))
		}
	})
}

func (r *Runner) Entries() int {
	return len(r.cron.Entries())
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}
