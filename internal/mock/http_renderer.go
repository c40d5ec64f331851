package mock

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

// HTTPRenderer implements port.HTTPRenderer for tests.
type HTTPRenderer struct {
	// stored values
	StatusOut []byte
	Etag      string
	Terminal  bool

	// captured inputs
	GotJobName string
	GotGetter  port.TranscriptionStatusGetter

	// errors
	Err error

	// call flags
	Called bool
}

func (m *HTTPRenderer) RenderTranscriptionStatus(ctx context.Context, getter port.TranscriptionStatusGetter, jobName string) ([]byte, string, bool, error) {
	m.Called = true
	m.GotJobName = jobName
	m.GotGetter = getter
	return m.StatusOut, m.Etag, m.Terminal, m.Err
}
