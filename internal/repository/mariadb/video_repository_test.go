package mariadb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

var (
	testNow     = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	testColumns = []string{
		"id", "name", "bucket", "object_key", "video_url", "size_bytes", "mime_type",
		"transcription_job_name", "transcription_status", "transcript_url", "failure_message",
		"last_observed_at", "created_at", "updated_at",
	}
)

func newTestRepo(t *testing.T) (*VideoRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
		_ = sqlDB.Close()
	})
	return NewVideoRepository(sqlDB), mock
}

func testVideo() *model.Video {
	id, _ := uuid.Parse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	return &model.Video{
		ID:                   id,
		Name:                 "clip.webm",
		Bucket:               "videos",
		ObjectKey:            id.String() + "/clip.webm",
		URL:                  "https://minio.example.com/videos/" + id.String() + "/clip.webm",
		SizeBytes:            1024,
		MimeType:             "video/webm",
		TranscriptionJobName: "transcription-1",
		TranscriptionStatus:  model.TranscriptionStatusInProgress,
		LastObservedAt:       testNow,
		CreatedAt:            testNow,
		UpdatedAt:            testNow,
	}
}

func videoRow(v *model.Video) []driver.Value {
	idBytes, _ := v.ID.Value()
	var transcriptURL, failure driver.Value
	if v.TranscriptURL != nil {
		transcriptURL = *v.TranscriptURL
	}
	if v.FailureMessage != nil {
		failure = *v.FailureMessage
	}
	return []driver.Value{
		idBytes, v.Name, v.Bucket, v.ObjectKey, v.URL, v.SizeBytes, v.MimeType,
		v.TranscriptionJobName, []byte(v.TranscriptionStatus), transcriptURL, failure,
		v.LastObservedAt, v.CreatedAt, v.UpdatedAt,
	}
}

func TestVideoRepository_Create(t *testing.T) {
	repo, mock := newTestRepo(t)
	v := testVideo()

	mock.ExpectExec(`INSERT INTO videos`).
		WithArgs(
			v.ID, v.Name, v.Bucket, v.ObjectKey, v.URL,
			v.SizeBytes, v.MimeType,
			v.TranscriptionJobName, v.TranscriptionStatus,
			v.TranscriptURL, v.FailureMessage,
			v.LastObservedAt, v.CreatedAt, v.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), v); err != nil {
		t.Errorf("Create() returned unexpected error: %v", err)
	}
}

func TestVideoRepository_Create_ExecError(t *testing.T) {
	repo, mock := newTestRepo(t)
	dbErr := errors.New("duplicate entry")

	mock.ExpectExec(`INSERT INTO videos`).WillReturnError(dbErr)

	if err := repo.Create(context.Background(), testVideo()); !errors.Is(err, dbErr) {
		t.Errorf("Create() error = %v; want %v", err, dbErr)
	}
}

func TestVideoRepository_GetByJobName(t *testing.T) {
	repo, mock := newTestRepo(t)
	want := testVideo()
	url := "https://s3/transcripts/transcription-1.json"
	want.TranscriptionStatus = model.TranscriptionStatusCompleted
	want.TranscriptURL = &url

	mock.ExpectQuery(`SELECT .+ FROM videos\s+WHERE transcription_job_name = \?`).
		WithArgs("transcription-1").
		WillReturnRows(sqlmock.NewRows(testColumns).AddRow(videoRow(want)...))

	got, err := repo.GetByJobName(context.Background(), "transcription-1")
	if err != nil {
		t.Fatalf("GetByJobName() returned unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name || got.ObjectKey != want.ObjectKey {
		t.Errorf("got %+v; want %+v", got, want)
	}
	if got.TranscriptionStatus != model.TranscriptionStatusCompleted {
		t.Errorf("status = %s; want COMPLETED", got.TranscriptionStatus)
	}
	if got.TranscriptURL == nil || *got.TranscriptURL != url {
		t.Errorf("transcript url = %v; want %q", got.TranscriptURL, url)
	}
	if got.FailureMessage != nil {
		t.Errorf("failure message = %q; want nil", *got.FailureMessage)
	}
	if !got.CreatedAt.Equal(testNow) {
		t.Errorf("created at = %v; want %v", got.CreatedAt, testNow)
	}
}

func TestVideoRepository_GetByJobName_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM videos`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(testColumns))

	if _, err := repo.GetByJobName(context.Background(), "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByJobName() error = %v; want sql.ErrNoRows", err)
	}
}

func TestVideoRepository_UpdateTranscription(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{"row was in progress", 1, true},
		{"row already terminal", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newTestRepo(t)
			v := testVideo()
			msg := "unsupported codec"
			v.TranscriptionStatus = model.TranscriptionStatusFailed
			v.FailureMessage = &msg

			mock.ExpectExec(`UPDATE videos\s+SET .+ WHERE transcription_job_name = \?\s+AND transcription_status = 'IN_PROGRESS'`).
				WithArgs(v.TranscriptionStatus, v.TranscriptURL, v.FailureMessage, v.LastObservedAt, v.UpdatedAt, v.TranscriptionJobName).
				WillReturnResult(sqlmock.NewResult(0, tc.rowsAffected))

			got, err := repo.UpdateTranscription(context.Background(), v)
			if err != nil {
				t.Fatalf("UpdateTranscription() returned unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("updated = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestVideoRepository_UpdateTranscription_ExecError(t *testing.T) {
	repo, mock := newTestRepo(t)
	dbErr := errors.New("lock wait timeout")

	mock.ExpectExec(`UPDATE videos`).WillReturnError(dbErr)

	if _, err := repo.UpdateTranscription(context.Background(), testVideo()); !errors.Is(err, dbErr) {
		t.Errorf("UpdateTranscription() error = %v; want %v", err, dbErr)
	}
}

func TestVideoRepository_List(t *testing.T) {
	repo, mock := newTestRepo(t)
	newer := testVideo()
	older := testVideo()
	older.ID = uuid.NewUUID()
	older.TranscriptionJobName = "transcription-0"
	older.CreatedAt = testNow.Add(-time.Hour)

	mock.ExpectQuery(`SELECT .+ FROM videos\s+ORDER BY created_at DESC\s+LIMIT \?`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(testColumns).
			AddRow(videoRow(newer)...).
			AddRow(videoRow(older)...))

	got, err := repo.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d videos; want 2", len(got))
	}
	if got[0].TranscriptionJobName != "transcription-1" || got[1].TranscriptionJobName != "transcription-0" {
		t.Errorf("order = [%s %s]", got[0].TranscriptionJobName, got[1].TranscriptionJobName)
	}
}

func TestVideoRepository_List_Errors(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		dbErr := errors.New("connection refused")
		mock.ExpectQuery(`SELECT .+ FROM videos`).WillReturnError(dbErr)

		if _, err := repo.List(context.Background(), 10); !errors.Is(err, dbErr) {
			t.Errorf("List() error = %v; want %v", err, dbErr)
		}
	})

	t.Run("row error", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		rowErr := errors.New("bad row")
		mock.ExpectQuery(`SELECT .+ FROM videos`).
			WillReturnRows(sqlmock.NewRows(testColumns).
				AddRow(videoRow(testVideo())...).
				RowError(0, rowErr))

		if _, err := repo.List(context.Background(), 10); !errors.Is(err, rowErr) {
			t.Errorf("List() error = %v; want %v", err, rowErr)
		}
	})
}
