package port

import (
	"context"
	"io"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// Stager holds inbound media on local scratch storage during an ingestion.
type Stager interface {
	Stage(ctx context.Context, r io.Reader, name string) (*model.StagedFile, error)
	Open(file *model.StagedFile) (io.ReadSeekCloser, error)
	Release(file *model.StagedFile) error
}
