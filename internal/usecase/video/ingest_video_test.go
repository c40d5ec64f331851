package video

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type ingestDeps struct {
	stager     *mock.Stager
	uploader   *mock.Uploader
	jobs       *mock.JobManager
	reconciler *mock.Reconciler
	dispatcher *mock.Dispatcher
}

func newIngestDeps() *ingestDeps {
	return &ingestDeps{
		stager:     &mock.Stager{},
		uploader:   &mock.Uploader{Out: storedLocation()},
		jobs:       &mock.JobManager{JobName: "transcription-1"},
		reconciler: &mock.Reconciler{},
		dispatcher: &mock.Dispatcher{},
	}
}

func (d *ingestDeps) service() port.VideoIngester {
	return NewVideoIngester(d.stager, d.uploader, d.jobs, d.reconciler, d.dispatcher, fixedJobIDGen)
}

func TestIngestVideo_Success(t *testing.T) {
	d := newIngestDeps()

	out, err := d.service().IngestVideo(context.Background(), port.IngestVideoInput{
		Name:     "clip.webm",
		MimeType: "video/webm",
		Body:     strings.NewReader("webm-bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.uploader.GotIn.Key != fixedJobID.String()+"/clip.webm" {
		t.Errorf("key = %q", d.uploader.GotIn.Key)
	}
	if d.uploader.GotIn.SizeBytes != int64(len("webm-bytes")) {
		t.Errorf("size = %d", d.uploader.GotIn.SizeBytes)
	}
	if d.uploader.GotIn.ContentType != "video/webm" {
		t.Errorf("content type = %q", d.uploader.GotIn.ContentType)
	}
	if d.jobs.GotLocation.URI != "s3://videos/id/clip.webm" {
		t.Errorf("submitted location = %+v", d.jobs.GotLocation)
	}
	if d.reconciler.CreatedJob != "transcription-1" {
		t.Errorf("recorded job = %q", d.reconciler.CreatedJob)
	}
	if d.reconciler.Created == nil || d.reconciler.Created.URL != storedLocation().URL {
		t.Errorf("recorded video = %+v", d.reconciler.Created)
	}
	if len(d.dispatcher.ReconcileJobNames) != 1 || d.dispatcher.ReconcileJobNames[0] != "transcription-1" {
		t.Errorf("reconcile enqueued for %v", d.dispatcher.ReconcileJobNames)
	}
	if d.stager.Remaining() != 0 || len(d.stager.Released) != 1 {
		t.Errorf("staged files left behind: %d", d.stager.Remaining())
	}

	if out.ID != fixedJobID || out.VideoURL != storedLocation().URL || out.TranscriptionJobName != "transcription-1" {
		t.Errorf("output = %+v", out)
	}
	want := port.FileDetails{Name: "clip.webm", Size: int64(len("webm-bytes")), Type: "video/webm"}
	if out.FileDetails != want {
		t.Errorf("file details = %+v; want %+v", out.FileDetails, want)
	}
}

func TestIngestVideo_SniffsMissingMediaType(t *testing.T) {
	d := newIngestDeps()

	_, err := d.service().IngestVideo(context.Background(), port.IngestVideoInput{
		Name: "upload.bin",
		Body: strings.NewReader("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.uploader.GotIn.ContentType != "application/pdf" {
		t.Errorf("content type = %q; want application/pdf", d.uploader.GotIn.ContentType)
	}
}

func TestIngestVideo_EnqueueFailureIsNotFatal(t *testing.T) {
	d := newIngestDeps()
	d.dispatcher.ReconcileErr = errors.New("redis down")

	if _, err := d.service().IngestVideo(context.Background(), port.IngestVideoInput{
		Name: "clip.webm", MimeType: "video/webm", Body: strings.NewReader("x"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIngestVideo_Failures(t *testing.T) {
	uploadErr := errors.New("upload exhausted")
	submitErr := errors.New("submit rejected")
	recordErr := errors.New("insert failed")

	tests := []struct {
		name         string
		in           port.IngestVideoInput
		setup        func(d *ingestDeps)
		wantErr      error
		wantStaged   bool
		wantUpload   bool
		wantSubmit   bool
		wantRecord   bool
		wantEnqueued bool
	}{
		{
			name:    "missing name",
			in:      port.IngestVideoInput{Body: strings.NewReader("x")},
			wantErr: ErrValidation,
		},
		{
			name:    "missing body",
			in:      port.IngestVideoInput{Name: "clip.webm"},
			wantErr: ErrValidation,
		},
		{
			name:    "staging fails",
			in:      port.IngestVideoInput{Name: "clip.webm", Body: strings.NewReader("x")},
			setup:   func(d *ingestDeps) { d.stager.StageErr = ErrFileTooLarge },
			wantErr: ErrFileTooLarge,
		},
		{
			name:       "upload fails",
			in:         port.IngestVideoInput{Name: "clip.webm", MimeType: "video/webm", Body: strings.NewReader("x")},
			setup:      func(d *ingestDeps) { d.uploader.Err = uploadErr },
			wantErr:    uploadErr,
			wantStaged: true,
			wantUpload: true,
		},
		{
			name:       "submission fails",
			in:         port.IngestVideoInput{Name: "clip.webm", MimeType: "video/webm", Body: strings.NewReader("x")},
			setup:      func(d *ingestDeps) { d.jobs.SubmitErr = submitErr },
			wantErr:    submitErr,
			wantStaged: true,
			wantUpload: true,
			wantSubmit: true,
		},
		{
			name:       "record fails",
			in:         port.IngestVideoInput{Name: "clip.webm", MimeType: "video/webm", Body: strings.NewReader("x")},
			setup:      func(d *ingestDeps) { d.reconciler.CreateErr = recordErr },
			wantErr:    recordErr,
			wantStaged: true,
			wantUpload: true,
			wantSubmit: true,
			wantRecord: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newIngestDeps()
			if tc.setup != nil {
				tc.setup(d)
			}

			_, err := d.service().IngestVideo(context.Background(), tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v; want %v", err, tc.wantErr)
			}

			if staged := len(d.stager.Staged) > 0; staged != tc.wantStaged {
				t.Errorf("staged = %v; want %v", staged, tc.wantStaged)
			}
			if tc.wantStaged && len(d.stager.Released) != 1 {
				t.Errorf("released %d staged files; want 1", len(d.stager.Released))
			}
			if d.stager.Remaining() != 0 {
				t.Errorf("%d staged files left behind", d.stager.Remaining())
			}
			if d.uploader.Called != tc.wantUpload {
				t.Errorf("upload called = %v; want %v", d.uploader.Called, tc.wantUpload)
			}
			if d.jobs.SubmitCalled != tc.wantSubmit {
				t.Errorf("submit called = %v; want %v", d.jobs.SubmitCalled, tc.wantSubmit)
			}
			if recorded := d.reconciler.Created != nil; recorded != tc.wantRecord {
				t.Errorf("record created = %v; want %v", recorded, tc.wantRecord)
			}
			if d.dispatcher.ReconcileCalled != tc.wantEnqueued {
				t.Errorf("reconcile enqueued = %v; want %v", d.dispatcher.ReconcileCalled, tc.wantEnqueued)
			}
		})
	}
}
