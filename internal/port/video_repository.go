package port

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// VideoRepository defines persistence operations for video records.
type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByJobName(ctx context.Context, jobName string) (*model.Video, error)
	// UpdateTranscription writes the transcription fields of video, only if the
	// stored row is still IN_PROGRESS. It reports whether a row was changed.
	UpdateTranscription(ctx context.Context, video *model.Video) (bool, error)
	List(ctx context.Context, limit int) ([]*model.Video, error)
}
