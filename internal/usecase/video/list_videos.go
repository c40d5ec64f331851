package video

import (
	"context"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/validation"
)

type videoListerSrv struct {
	repo port.VideoRepository
}

// compile-time check: *videoListerSrv must satisfy port.VideoLister
var _ port.VideoLister = (*videoListerSrv)(nil)

func NewVideoLister(repo port.VideoRepository) port.VideoLister {
	return &videoListerSrv{repo: repo}
}

func (s *videoListerSrv) ListVideos(ctx context.Context, in port.ListVideosInput) ([]*model.Video, error) {
	if err := validation.ValidateStruct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	limit := in.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}

	videos, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return videos, nil
}
