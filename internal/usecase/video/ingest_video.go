package video

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/validation"
	"github.com/gabriel-vasile/mimetype"
)

type videoIngesterSrv struct {
	stager     port.Stager
	uploader   port.Uploader
	jobs       port.TranscriptionJobManager
	reconciler port.StatusReconciler
	dispatcher port.TaskDispatcher
	newID      port.UUIDGen
}

// compile-time check: *videoIngesterSrv must satisfy port.VideoIngester
var _ port.VideoIngester = (*videoIngesterSrv)(nil)

func NewVideoIngester(
	stager port.Stager,
	uploader port.Uploader,
	jobs port.TranscriptionJobManager,
	reconciler port.StatusReconciler,
	dispatcher port.TaskDispatcher,
	newID port.UUIDGen,
) port.VideoIngester {
	return &videoIngesterSrv{
		stager:     stager,
		uploader:   uploader,
		jobs:       jobs,
		reconciler: reconciler,
		dispatcher: dispatcher,
		newID:      newID,
	}
}

// IngestVideo stages the inbound stream, uploads it, submits a transcription
// job and records the video. The staged file is released on every path.
func (s *videoIngesterSrv) IngestVideo(ctx context.Context, in port.IngestVideoInput) (port.IngestVideoOutput, error) {
	if err := validation.ValidateStruct(in); err != nil {
		return port.IngestVideoOutput{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	file, err := s.stager.Stage(ctx, in.Body, in.Name)
	if err != nil {
		return port.IngestVideoOutput{}, err
	}
	defer func() {
		if err := s.stager.Release(file); err != nil {
			logger.Warnf(ctx, "could not release staged file %q: %v", file.Path, err)
		}
	}()

	src, err := s.stager.Open(file)
	if err != nil {
		return port.IngestVideoOutput{}, fmt.Errorf("open staged file: %w", err)
	}
	defer func() { _ = src.Close() }()

	mimeType := normaliseMimeType(in.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		detected, err := mimetype.DetectReader(src)
		if err != nil {
			return port.IngestVideoOutput{}, fmt.Errorf("detect media type: %w", err)
		}
		mimeType = normaliseMimeType(detected.String())
		logger.Debugf(ctx, "detected media type %q for %q", mimeType, file.Name)
	}

	id := s.newID()
	key := fmt.Sprintf("%s/%s", id, file.Name)
	loc, err := s.uploader.Upload(ctx, port.UploadInput{
		Source:      src,
		SizeBytes:   file.SizeBytes,
		Key:         key,
		ContentType: mimeType,
	})
	if err != nil {
		return port.IngestVideoOutput{}, err
	}
	logger.Infof(ctx, "stored %q (%s) at %s", file.Name, humanize.IBytes(uint64(file.SizeBytes)), loc.URL)

	jobName, err := s.jobs.Submit(ctx, loc, mimeType)
	if err != nil {
		logger.Errorf(ctx, "transcription not submitted, %q stays in bucket %q without a record", loc.Key, loc.Bucket)
		return port.IngestVideoOutput{}, err
	}

	video := &model.Video{
		ID:        id,
		Name:      in.Name,
		Bucket:    loc.Bucket,
		ObjectKey: loc.Key,
		URL:       loc.URL,
		SizeBytes: file.SizeBytes,
		MimeType:  mimeType,
	}
	if err := s.reconciler.RecordCreated(ctx, video, jobName); err != nil {
		return port.IngestVideoOutput{}, err
	}

	if err := s.dispatcher.EnqueueReconcileTranscription(ctx, jobName); err != nil {
		logger.Warnf(ctx, "could not enqueue reconciliation for job %q: %v", jobName, err)
	}

	return port.IngestVideoOutput{
		ID:                   id,
		VideoURL:             loc.URL,
		TranscriptionJobName: jobName,
		FileDetails: port.FileDetails{
			Name: in.Name,
			Size: file.SizeBytes,
			Type: mimeType,
		},
	}, nil
}
