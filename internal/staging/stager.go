package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/spf13/afero"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type TempStager struct {
	fs      afero.Fs
	dir     string
	maxSize int64
	newID   port.UUIDGen
}

// compile-time check: *TempStager must satisfy port.Stager
var _ port.Stager = (*TempStager)(nil)

// NewTempStager stages files under dir on the OS filesystem.
func NewTempStager(dir string, maxSize int64) (*TempStager, error) {
	if dir == "" {
		dir = filepath.Join(afero.GetTempDir(afero.NewOsFs(), ""), "videos-ms")
	}
	return newTempStager(afero.NewOsFs(), dir, maxSize, uuid.NewUUID)
}

func newTempStager(fsys afero.Fs, dir string, maxSize int64, newID port.UUIDGen) (*TempStager, error) {
	if err := fsys.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create scratch dir %q: %w", dir, err)
	}
	return &TempStager{fs: fsys, dir: dir, maxSize: maxSize, newID: newID}, nil
}

// Stage copies r to a uniquely named scratch file. Streams larger than the
// configured maximum are rejected and nothing is left behind.
func (s *TempStager) Stage(ctx context.Context, r io.Reader, name string) (*model.StagedFile, error) {
	clean := SanitizeFileName(name)
	p := filepath.Join(s.dir, fmt.Sprintf("%s-%s", s.newID(), clean))

	f, err := s.fs.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	staged := &model.StagedFile{Path: p, Name: clean}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(f, &contextReader{ctx: ctx, r: src})
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = s.Release(staged)
		return nil, fmt.Errorf("write scratch file: %w", err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		_ = s.Release(staged)
		return nil, fmt.Errorf("%w: exceeds the %s limit", video.ErrFileTooLarge, humanize.IBytes(uint64(s.maxSize)))
	}

	staged.SizeBytes = n
	logger.Debugf(ctx, "staged %q (%s) at %s", name, humanize.IBytes(uint64(n)), p)
	return staged, nil
}

func (s *TempStager) Open(file *model.StagedFile) (io.ReadSeekCloser, error) {
	f, err := s.fs.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("open scratch file: %w", err)
	}
	return f, nil
}

// Release removes the staged file. A file that is already gone is not an error.
func (s *TempStager) Release(file *model.StagedFile) error {
	if file == nil {
		return nil
	}
	if err := s.fs.Remove(file.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// SanitizeFileName keeps the base name of name and replaces anything that is
// not safe in an object key.
func SanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		return "recording"
	}
	if len(base) > 128 {
		base = base[len(base)-128:]
	}
	return base
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
