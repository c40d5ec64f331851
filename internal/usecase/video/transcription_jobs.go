package video

import (
	"context"
	"fmt"
	"strings"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

const defaultFailureMessage = "Transcription job failed"

type TranscriptionConfig struct {
	LanguageCode  string
	JobNamePrefix string
	OutputBucket  string
}

type transcriptionJobsSrv struct {
	transcriber port.Transcriber
	metrics     port.Metrics
	cfg         TranscriptionConfig
	newID       port.UUIDGen
}

// compile-time check: *transcriptionJobsSrv must satisfy port.TranscriptionJobManager
var _ port.TranscriptionJobManager = (*transcriptionJobsSrv)(nil)

func NewTranscriptionJobManager(transcriber port.Transcriber, metrics port.Metrics, cfg TranscriptionConfig, newID port.UUIDGen) port.TranscriptionJobManager {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = DefaultLanguageCode
	}
	if cfg.JobNamePrefix == "" {
		cfg.JobNamePrefix = DefaultJobNamePrefix
	}
	return &transcriptionJobsSrv{transcriber: transcriber, metrics: metrics, cfg: cfg, newID: newID}
}

func (s *transcriptionJobsSrv) Submit(ctx context.Context, loc port.ObjectLocation, mimeType string) (string, error) {
	if loc.URI == "" {
		s.metrics.JobSubmitted("failure")
		return "", fmt.Errorf("%w: object %q has no storage URI", ErrTranscriptionSubmitFailed, loc.Key)
	}

	jobName := fmt.Sprintf("%s-%s", s.cfg.JobNamePrefix, s.newID())
	in := port.StartJobInput{
		JobName:      jobName,
		LanguageCode: s.cfg.LanguageCode,
		MediaURI:     loc.URI,
		MediaFormat:  MediaFormat(mimeType),
		OutputBucket: s.cfg.OutputBucket,
	}
	if err := s.transcriber.StartJob(ctx, in); err != nil {
		s.metrics.JobSubmitted("failure")
		return "", fmt.Errorf("%w: %w", ErrTranscriptionSubmitFailed, err)
	}

	s.metrics.JobSubmitted("success")
	logger.Infof(ctx, "submitted transcription job %q for %q", jobName, loc.URI)
	return jobName, nil
}

// Poll queries the job once. Any non-terminal service status maps to IN_PROGRESS.
func (s *transcriptionJobsSrv) Poll(ctx context.Context, jobName string) (port.PollResult, error) {
	if jobName == "" {
		return port.PollResult{}, ErrMissingJobName
	}

	st, err := s.transcriber.GetJob(ctx, jobName)
	if err != nil {
		return port.PollResult{}, fmt.Errorf("%w: %w", ErrTranscriptionPollFailed, err)
	}

	var res port.PollResult
	switch strings.ToUpper(st.Status) {
	case string(model.TranscriptionStatusCompleted):
		if st.TranscriptURI == "" {
			return port.PollResult{}, fmt.Errorf("%w: completed job %q has no transcript location", ErrTranscriptionPollFailed, jobName)
		}
		res = port.PollResult{Status: model.TranscriptionStatusCompleted, TranscriptURL: st.TranscriptURI}
	case string(model.TranscriptionStatusFailed):
		reason := st.FailureReason
		if reason == "" {
			reason = defaultFailureMessage
		}
		res = port.PollResult{Status: model.TranscriptionStatusFailed, FailureReason: reason}
	default:
		res = port.PollResult{Status: model.TranscriptionStatusInProgress}
	}

	s.metrics.StatusPolled(string(res.Status))
	return res, nil
}
