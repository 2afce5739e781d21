// Package scheduler runs the periodic tier sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper recomputes the tier of every active lender.
type Sweeper interface {
	RecomputeAll(ctx context.Context) (int, error)
}

type TierSweep struct {
	cron    *cron.Cron
	sweeper Sweeper
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewTierSweep schedules the sweep on spec (standard 5-field cron or a
// descriptor such as "@every 1h"). Overlapping runs are skipped.
func NewTierSweep(spec string, s Sweeper, timeout time.Duration, log logrus.FieldLogger) (*TierSweep, error) {
	cl := cronLogger{log: log}
	t := &TierSweep{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		), cron.WithLogger(cl)),
		sweeper: s,
		log:     log,
		timeout: timeout,
	}
	if _, err := t.cron.AddJob(spec, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Run performs one sweep; it satisfies cron.Job.
func (t *TierSweep) Run() {
	ctx := context.Background()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	start := time.Now()
	n, err := t.sweeper.RecomputeAll(ctx)
	log := t.log.WithFields(logrus.Fields{"updated": n, "took": time.Since(start).String()})
	if err != nil {
		log.WithError(err).Warn("scheduler: tier sweep finished with errors")
		return
	}
	log.Info("scheduler: tier sweep done")
}

func (t *TierSweep) Start() { t.cron.Start() }

// Next is when the sweep fires next; zero before Start.
func (t *TierSweep) Next() time.Time {
	entries := t.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts scheduling and waits for a running sweep, or ctx.
func (t *TierSweep) Stop(ctx context.Context) error {
	done := t.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger feeds cron's key/value logging into logrus.
type cronLogger struct{ log logrus.FieldLogger }

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.WithFields(fields(kv)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.WithFields(fields(kv)).WithError(err).Error("cron: " + msg)
}
