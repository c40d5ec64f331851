package port

import "context"

// TaskDispatcher enqueues asynchronous tasks related to transcriptions.
type TaskDispatcher interface {
	EnqueueReconcileTranscription(ctx context.Context, jobName string) error
}
