package mock

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// Stager keeps staged files in memory.
type Stager struct {
	StageErr   error
	OpenErr    error
	ReleaseErr error

	Files    map[string][]byte
	Staged   []*model.StagedFile
	Released []*model.StagedFile
}

func (s *Stager) Stage(ctx context.Context, r io.Reader, name string) (*model.StagedFile, error) {
	if s.StageErr != nil {
		return nil, s.StageErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if s.Files == nil {
		s.Files = map[string][]byte{}
	}
	f := &model.StagedFile{Path: "/scratch/" + name, Name: name, SizeBytes: int64(len(data))}
	s.Files[f.Path] = data
	s.Staged = append(s.Staged, f)
	return f, nil
}

func (s *Stager) Open(file *model.StagedFile) (io.ReadSeekCloser, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	data, ok := s.Files[file.Path]
	if !ok {
		return nil, errors.New("staged file not found")
	}
	return noopRSC{bytes.NewReader(data)}, nil
}

func (s *Stager) Release(file *model.StagedFile) error {
	s.Released = append(s.Released, file)
	delete(s.Files, file.Path)
	return s.ReleaseErr
}

// Remaining reports how many staged files have not been released.
func (s *Stager) Remaining() int {
	return len(s.Files)
}

// noopRSC implements io.ReadSeekCloser with a no-op Close.
type noopRSC struct{ *bytes.Reader }

func (noopRSC) Close() error { return nil }
