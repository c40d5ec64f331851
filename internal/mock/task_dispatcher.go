package mock

import "context"

// Dispatcher implements port.TaskDispatcher for tests.
type Dispatcher struct {
	ReconcileCalled   bool
	ReconcileJobNames []string
	ReconcileErr      error
}

func (d *Dispatcher) EnqueueReconcileTranscription(ctx context.Context, jobName string) error {
	d.ReconcileCalled = true
	d.ReconcileJobNames = append(d.ReconcileJobNames, jobName)
	return d.ReconcileErr
}
