package mariadb

import (
	"context"
	"database/sql"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

const videoColumns = `id, name, bucket, object_key, video_url, size_bytes, mime_type,
        transcription_job_name, transcription_status, transcript_url, failure_message,
        last_observed_at, created_at, updated_at`

type VideoRepository struct {
	db *sql.DB
}

// compile-time check: *VideoRepository must satisfy port.VideoRepository
var _ port.VideoRepository = (*VideoRepository)(nil)

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	logger.Debugf(ctx, "creating database record for video #%s, job %q at status %q...", video.ID, video.TranscriptionJobName, video.TranscriptionStatus)

	const query = `
      INSERT INTO videos
        (` + videoColumns + `)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		video.ID, video.Name, video.Bucket, video.ObjectKey, video.URL,
		video.SizeBytes, video.MimeType,
		video.TranscriptionJobName, video.TranscriptionStatus,
		video.TranscriptURL, video.FailureMessage,
		video.LastObservedAt, video.CreatedAt, video.UpdatedAt,
	)
	return err
}

// GetByJobName returns sql.ErrNoRows when no video carries jobName.
func (r *VideoRepository) GetByJobName(ctx context.Context, jobName string) (*model.Video, error) {
	logger.Debugf(ctx, "fetching video for transcription job %q from the database...", jobName)

	const query = `
      SELECT ` + videoColumns + `
      FROM videos
      WHERE transcription_job_name = ?
    `
	return scanVideo(r.db.QueryRowContext(ctx, query, jobName))
}

func (r *VideoRepository) UpdateTranscription(ctx context.Context, video *model.Video) (bool, error) {
	logger.Debugf(ctx, "updating transcription of video #%s to status %q...", video.ID, video.TranscriptionStatus)

	const query = `
      UPDATE videos
      SET
        transcription_status = ?,
        transcript_url       = ?,
        failure_message      = ?,
        last_observed_at     = ?,
        updated_at           = ?
      WHERE transcription_job_name = ?
        AND transcription_status = 'IN_PROGRESS'
    `
	res, err := r.db.ExecContext(ctx, query,
		video.TranscriptionStatus,
		video.TranscriptURL,
		video.FailureMessage,
		video.LastObservedAt,
		video.UpdatedAt,
		video.TranscriptionJobName, // WHERE clause
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *VideoRepository) List(ctx context.Context, limit int) ([]*model.Video, error) {
	const query = `
      SELECT ` + videoColumns + `
      FROM videos
      ORDER BY created_at DESC
      LIMIT ?
    `
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var videos []*model.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*model.Video, error) {
	var v model.Video
	if err := row.Scan(
		&v.ID, &v.Name, &v.Bucket, &v.ObjectKey, &v.URL,
		&v.SizeBytes, &v.MimeType,
		&v.TranscriptionJobName, &v.TranscriptionStatus,
		&v.TranscriptURL, &v.FailureMessage,
		&v.LastObservedAt, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
