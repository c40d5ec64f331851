package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type transcriptionStatusGetterSrv struct {
	repo       port.VideoRepository
	jobs       port.TranscriptionJobManager
	reconciler port.StatusReconciler
}

// compile-time check: *transcriptionStatusGetterSrv must satisfy port.TranscriptionStatusGetter
var _ port.TranscriptionStatusGetter = (*transcriptionStatusGetterSrv)(nil)

func NewTranscriptionStatusGetter(repo port.VideoRepository, jobs port.TranscriptionJobManager, reconciler port.StatusReconciler) port.TranscriptionStatusGetter {
	return &transcriptionStatusGetterSrv{repo: repo, jobs: jobs, reconciler: reconciler}
}

// GetTranscriptionStatus answers terminal records from the database and
// otherwise polls the job once and reconciles the record with the result.
func (s *transcriptionStatusGetterSrv) GetTranscriptionStatus(ctx context.Context, jobName string) (port.TranscriptionStatusOutput, error) {
	if jobName == "" {
		return port.TranscriptionStatusOutput{}, ErrMissingJobName
	}

	stored, err := s.repo.GetByJobName(ctx, jobName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return port.TranscriptionStatusOutput{}, fmt.Errorf("%w: job %q", ErrRecordNotFound, jobName)
		}
		return port.TranscriptionStatusOutput{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if stored.TranscriptionStatus.IsTerminal() {
		return statusOutput(stored), nil
	}

	res, err := s.jobs.Poll(ctx, jobName)
	if err != nil {
		return port.TranscriptionStatusOutput{}, err
	}

	video, err := s.reconciler.ApplyPollResult(ctx, jobName, res)
	if err != nil {
		return port.TranscriptionStatusOutput{}, err
	}
	return statusOutput(video), nil
}

func statusOutput(v *model.Video) port.TranscriptionStatusOutput {
	out := port.TranscriptionStatusOutput{
		JobName: v.TranscriptionJobName,
		Status:  v.TranscriptionStatus,
	}
	if v.TranscriptURL != nil {
		out.TranscriptURL = *v.TranscriptURL
	}
	if v.FailureMessage != nil {
		out.FailureMessage = *v.FailureMessage
	}
	return out
}
