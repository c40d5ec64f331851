package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/hibiken/asynq"
)

// ErrStillInProgress makes the queue retry the task until the job settles.
var ErrStillInProgress = errors.New("transcription job still in progress")

// ReconcileTranscriptionHandler handles a reconcile-transcription task.
// It polls the job through the status getter, which persists terminal
// outcomes, and asks for a retry while the job is still running.
func ReconcileTranscriptionHandler(ctx context.Context, p task.ReconcileTranscriptionPayload, svc port.TranscriptionStatusGetter) error {
	ctx = api_context.WithJobName(ctx, p.JobName)
	out, err := svc.GetTranscriptionStatus(ctx, p.JobName)
	if err != nil {
		if errors.Is(err, video.ErrRecordNotFound) || errors.Is(err, video.ErrValidation) {
			logger.Errorf(ctx, "❌  Dropping reconciliation of transcription job %q: %v", p.JobName, err)
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		logger.Errorf(ctx, "❌  Failed to reconcile transcription job %q: %v", p.JobName, err)
		return err
	}

	if out.Status == model.TranscriptionStatusInProgress {
		logger.Debugf(ctx, "Transcription job %q is still in progress", p.JobName)
		return ErrStillInProgress
	}

	logger.Infof(ctx, "✅  Transcription job %q settled as %s", p.JobName, out.Status)
	return nil
}
