package task

import (
	"context"
	"errors"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/hibiken/asynq"
)

const (
	DefaultReconcileDelay    = 15 * time.Second
	DefaultReconcileMaxRetry = 40
	maxReconcileDelay        = 5 * time.Minute
)

type Dispatcher struct {
	client   *asynq.Client
	delay    time.Duration
	maxRetry int
}

// compile-time check: *Dispatcher must satisfy port.TaskDispatcher
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string, delay time.Duration, maxRetry int) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	if delay <= 0 {
		delay = DefaultReconcileDelay
	}
	if maxRetry <= 0 {
		maxRetry = DefaultReconcileMaxRetry
	}
	return &Dispatcher{client: c, delay: delay, maxRetry: maxRetry}
}

func (d *Dispatcher) EnqueueReconcileTranscription(ctx context.Context, jobName string) error {
	t, err := NewReconcileTranscriptionTask(jobName, reconcileOptions(jobName, d.delay, d.maxRetry)...)
	if err != nil {
		return err
	}
	info, err := d.client.EnqueueContext(ctx, t)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Debugf(ctx, "reconciliation for job %q already queued", jobName)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "queued reconciliation %s for job %q", info.ID, jobName)
	return nil
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}

func reconcileOptions(jobName string, delay time.Duration, maxRetry int) []asynq.Option {
	return []asynq.Option{
		asynq.TaskID("reconcile:" + jobName),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(maxRetry),
	}
}

// ReconcileRetryDelay returns an asynq.RetryDelayFunc that doubles the delay
// from base on every retry of a reconcile task, capped at five minutes. Other
// task types keep asynq's default.
func ReconcileRetryDelay(base time.Duration) asynq.RetryDelayFunc {
	if base <= 0 {
		base = DefaultReconcileDelay
	}
	return func(n int, err error, t *asynq.Task) time.Duration {
		if t == nil || t.Type() != TypeReconcileTranscription {
			return asynq.DefaultRetryDelayFunc(n, err, t)
		}
		delay := base
		for i := 0; i < n && delay < maxReconcileDelay; i++ {
			delay *= 2
		}
		return min(delay, maxReconcileDelay)
	}
}
