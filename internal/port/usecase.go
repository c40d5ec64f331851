package port

import (
	"context"
	"io"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// Uploader transfers a staged file to the object store in fixed-size parts.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) (ObjectLocation, error)
}
type UploadInput struct {
	Source      io.ReadSeeker
	SizeBytes   int64
	Key         string
	ContentType string
}

// TranscriptionJobManager submits and polls transcription jobs.
type TranscriptionJobManager interface {
	Submit(ctx context.Context, loc ObjectLocation, mimeType string) (string, error)
	Poll(ctx context.Context, jobName string) (PollResult, error)
}
type PollResult struct {
	Status        model.TranscriptionStatus
	TranscriptURL string
	FailureReason string
}

// StatusReconciler keeps video records consistent with their transcription job.
type StatusReconciler interface {
	RecordCreated(ctx context.Context, video *model.Video, jobName string) error
	ApplyPollResult(ctx context.Context, jobName string, res PollResult) (*model.Video, error)
}

// VideoIngester stages, uploads and submits an inbound video for transcription.
type VideoIngester interface {
	IngestVideo(ctx context.Context, in IngestVideoInput) (IngestVideoOutput, error)
}
type IngestVideoInput struct {
	Name     string    `json:"name" validate:"required,max=255"`
	MimeType string    `json:"type" validate:"omitempty,max=255,mediatype"`
	Body     io.Reader `json:"-" validate:"required"`
}
type FileDetails struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}
type IngestVideoOutput struct {
	ID                   uuid.UUID   `json:"id"`
	VideoURL             string      `json:"videoUrl"`
	TranscriptionJobName string      `json:"transcriptionJobName"`
	FileDetails          FileDetails `json:"fileDetails"`
}

// TranscriptionStatusGetter returns the current status of a transcription job.
type TranscriptionStatusGetter interface {
	GetTranscriptionStatus(ctx context.Context, jobName string) (TranscriptionStatusOutput, error)
}
type TranscriptionStatusOutput struct {
	JobName        string
	Status         model.TranscriptionStatus
	TranscriptURL  string
	FailureMessage string
}

// VideoLister lists stored videos, newest first.
type VideoLister interface {
	ListVideos(ctx context.Context, in ListVideosInput) ([]*model.Video, error)
}
type ListVideosInput struct {
	Limit int `json:"limit" validate:"min=0,max=100"`
}
