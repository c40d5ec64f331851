package mock

import (
	"context"
	"database/sql"
	"sync"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// VideoRepo is an in-memory port.VideoRepository keyed by job name.
type VideoRepo struct {
	mu sync.Mutex

	Videos map[string]*model.Video

	CreateErr error
	GetErr    error
	UpdateErr error
	ListErr   error

	// ForceNotUpdated makes UpdateTranscription report that no row changed.
	ForceNotUpdated bool

	Created      []*model.Video
	Updated      []*model.Video
	GetCalls     int
	ListCalled   bool
	GotListLimit int
	ListOut      []*model.Video
}

func (r *VideoRepo) Create(ctx context.Context, video *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	cp := *video
	r.Created = append(r.Created, &cp)
	if r.Videos == nil {
		r.Videos = map[string]*model.Video{}
	}
	stored := cp
	r.Videos[video.TranscriptionJobName] = &stored
	return nil
}

func (r *VideoRepo) GetByJobName(ctx context.Context, jobName string) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GetCalls++
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	v, ok := r.Videos[jobName]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *v
	return &cp, nil
}

func (r *VideoRepo) UpdateTranscription(ctx context.Context, video *model.Video) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return false, r.UpdateErr
	}
	if r.ForceNotUpdated {
		return false, nil
	}
	stored, ok := r.Videos[video.TranscriptionJobName]
	if !ok || stored.TranscriptionStatus != model.TranscriptionStatusInProgress {
		return false, nil
	}
	cp := *video
	r.Updated = append(r.Updated, &cp)
	next := cp
	r.Videos[video.TranscriptionJobName] = &next
	return true, nil
}

func (r *VideoRepo) List(ctx context.Context, limit int) ([]*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ListCalled = true
	r.GotListLimit = limit
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	return r.ListOut, nil
}
