package mock

import (
	"context"
	"io"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

// Uploader implements port.Uploader for tests.
type Uploader struct {
	Out port.ObjectLocation
	Err error

	Called  bool
	GotIn   port.UploadInput
	GotData []byte
}

func (u *Uploader) Upload(ctx context.Context, in port.UploadInput) (port.ObjectLocation, error) {
	u.Called = true
	u.GotIn = in
	if u.Err != nil {
		return port.ObjectLocation{}, u.Err
	}
	return u.Out, nil
}

// JobManager implements port.TranscriptionJobManager for tests.
type JobManager struct {
	JobName   string
	SubmitErr error
	PollOut   port.PollResult
	PollErr   error

	SubmitCalled bool
	GotLocation  port.ObjectLocation
	GotMimeType  string
	PollCalled   bool
	GotJobName   string
}

func (j *JobManager) Submit(ctx context.Context, loc port.ObjectLocation, mimeType string) (string, error) {
	j.SubmitCalled = true
	j.GotLocation = loc
	j.GotMimeType = mimeType
	if j.SubmitErr != nil {
		return "", j.SubmitErr
	}
	return j.JobName, nil
}

func (j *JobManager) Poll(ctx context.Context, jobName string) (port.PollResult, error) {
	j.PollCalled = true
	j.GotJobName = jobName
	return j.PollOut, j.PollErr
}

// Reconciler implements port.StatusReconciler for tests.
type Reconciler struct {
	CreateErr error
	ApplyOut  *model.Video
	ApplyErr  error

	Created     *model.Video
	CreatedJob  string
	ApplyCalled bool
	GotResult   port.PollResult
}

func (r *Reconciler) RecordCreated(ctx context.Context, video *model.Video, jobName string) error {
	r.Created = video
	r.CreatedJob = jobName
	return r.CreateErr
}

func (r *Reconciler) ApplyPollResult(ctx context.Context, jobName string, res port.PollResult) (*model.Video, error) {
	r.ApplyCalled = true
	r.GotResult = res
	return r.ApplyOut, r.ApplyErr
}

// VideoIngester implements port.VideoIngester for tests.
type VideoIngester struct {
	Out port.IngestVideoOutput
	Err error

	Called  bool
	GotIn   port.IngestVideoInput
	GotBody []byte
}

func (m *VideoIngester) IngestVideo(ctx context.Context, in port.IngestVideoInput) (port.IngestVideoOutput, error) {
	m.Called = true
	m.GotIn = in
	if in.Body != nil {
		m.GotBody, _ = io.ReadAll(in.Body)
	}
	return m.Out, m.Err
}

// TranscriptionStatusGetter implements port.TranscriptionStatusGetter for tests.
type TranscriptionStatusGetter struct {
	Out port.TranscriptionStatusOutput
	Err error

	Called     bool
	GotJobName string
}

func (m *TranscriptionStatusGetter) GetTranscriptionStatus(ctx context.Context, jobName string) (port.TranscriptionStatusOutput, error) {
	m.Called = true
	m.GotJobName = jobName
	return m.Out, m.Err
}

// VideoLister implements port.VideoLister for tests.
type VideoLister struct {
	Out []*model.Video
	Err error

	Called bool
	GotIn  port.ListVideosInput
}

func (m *VideoLister) ListVideos(ctx context.Context, in port.ListVideosInput) ([]*model.Video, error) {
	m.Called = true
	m.GotIn = in
	return m.Out, m.Err
}
