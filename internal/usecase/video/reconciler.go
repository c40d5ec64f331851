package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type statusReconcilerSrv struct {
	repo port.VideoRepository
	now  func() time.Time
}

// compile-time check: *statusReconcilerSrv must satisfy port.StatusReconciler
var _ port.StatusReconciler = (*statusReconcilerSrv)(nil)

func NewStatusReconciler(repo port.VideoRepository) port.StatusReconciler {
	return &statusReconcilerSrv{repo: repo, now: time.Now}
}

// RecordCreated persists the record for a freshly uploaded video whose job
// has just been submitted.
func (s *statusReconcilerSrv) RecordCreated(ctx context.Context, video *model.Video, jobName string) error {
	if jobName == "" {
		return ErrMissingJobName
	}

	now := s.now().UTC()
	video.TranscriptionJobName = jobName
	video.TranscriptionStatus = model.TranscriptionStatusInProgress
	video.TranscriptURL = nil
	video.FailureMessage = nil
	video.LastObservedAt = now
	video.CreatedAt = now
	video.UpdatedAt = now

	if err := s.repo.Create(ctx, video); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// ApplyPollResult moves an IN_PROGRESS record to the terminal state reported
// by a poll. Terminal records are returned untouched.
func (s *statusReconcilerSrv) ApplyPollResult(ctx context.Context, jobName string, res port.PollResult) (*model.Video, error) {
	video, err := s.getByJobName(ctx, jobName)
	if err != nil {
		return nil, err
	}

	if video.TranscriptionStatus.IsTerminal() {
		if res.Status != video.TranscriptionStatus {
			logger.Warnf(ctx, "ignoring %s result for job %q already %s", res.Status, jobName, video.TranscriptionStatus)
		}
		return video, nil
	}

	switch res.Status {
	case model.TranscriptionStatusInProgress:
		return video, nil
	case model.TranscriptionStatusCompleted:
		transcriptURL := res.TranscriptURL
		video.TranscriptURL = &transcriptURL
		video.FailureMessage = nil
	case model.TranscriptionStatusFailed:
		msg := res.FailureReason
		if msg == "" {
			msg = defaultFailureMessage
		}
		video.FailureMessage = &msg
	default:
		return nil, fmt.Errorf("unknown transcription status %q for job %q", res.Status, jobName)
	}

	now := s.now().UTC()
	video.TranscriptionStatus = res.Status
	video.LastObservedAt = now
	video.UpdatedAt = now

	updated, err := s.repo.UpdateTranscription(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !updated {
		// another reconciler reached a terminal state first
		return s.getByJobName(ctx, jobName)
	}

	logger.Infof(ctx, "transcription job %q reconciled to %s", jobName, video.TranscriptionStatus)
	return video, nil
}

func (s *statusReconcilerSrv) getByJobName(ctx context.Context, jobName string) (*model.Video, error) {
	video, err := s.repo.GetByJobName(ctx, jobName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: job %q", ErrRecordNotFound, jobName)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return video, nil
}
