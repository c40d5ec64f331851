package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

const inProgressMessage = "Transcription job is still in progress"

// TranscriptionStatusBody is the JSON document served for a transcription job.
type TranscriptionStatusBody struct {
	Success       bool                      `json:"success"`
	Status        model.TranscriptionStatus `json:"status"`
	TranscriptURL string                    `json:"transcriptUrl,omitempty"`
	Message       string                    `json:"message,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

type httpRenderer struct {
	cache port.Cache
}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

// NewHTTPRenderer creates a new HTTPRenderer implementation.
func NewHTTPRenderer(cache port.Cache) port.HTTPRenderer {
	return &httpRenderer{cache: cache}
}

// RenderTranscriptionStatus serves terminal statuses from the cache when
// possible. Otherwise it runs the getter, renders the body and caches it
// only if the status can no longer change.
func (r *httpRenderer) RenderTranscriptionStatus(ctx context.Context, getter port.TranscriptionStatusGetter, jobName string) ([]byte, string, bool, error) {
	raw, err := r.cache.GetTranscriptionStatus(ctx, jobName)
	etag, errEtag := r.cache.GetEtagTranscriptionStatus(ctx, jobName)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		return raw, etag, true, nil
	}

	out, err := getter.GetTranscriptionStatus(ctx, jobName)
	if err != nil {
		return nil, "", false, err
	}

	raw, err = json.Marshal(statusBody(out))
	if err != nil {
		return nil, "", false, fmt.Errorf("json marshal: %w", err)
	}
	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))

	terminal := out.Status.IsTerminal()
	if terminal {
		r.cache.SetTranscriptionStatus(ctx, jobName, raw)
		r.cache.SetEtagTranscriptionStatus(ctx, jobName, etag)
	}

	return raw, etag, terminal, nil
}

func statusBody(out port.TranscriptionStatusOutput) TranscriptionStatusBody {
	body := TranscriptionStatusBody{Status: out.Status}
	switch out.Status {
	case model.TranscriptionStatusCompleted:
		body.Success = true
		body.TranscriptURL = out.TranscriptURL
	case model.TranscriptionStatusFailed:
		body.Error = out.FailureMessage
	default:
		body.Message = inProgressMessage
	}
	return body
}
