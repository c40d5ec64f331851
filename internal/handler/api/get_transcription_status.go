package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

func GetTranscriptionStatusHandler(renderer port.HTTPRenderer, svc port.TranscriptionStatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobName, ok := api_context.JobNameFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "Job name is required", nil)
			return
		}

		raw, etag, terminal, err := renderer.RenderTranscriptionStatus(r.Context(), svc, jobName)
		if err != nil {
			switch {
			case errors.Is(err, video.ErrValidation):
				WriteError(w, http.StatusBadRequest, "Invalid job name", err)
			case errors.Is(err, video.ErrRecordNotFound):
				WriteError(w, http.StatusInternalServerError, "Transcription job not found", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Failed to fetch transcription job", err)
			}
			return
		}

		w.Header().Set("ETag", etag)
		if terminal {
			w.Header().Set("Cache-Control", "public, max-age=300")
		} else {
			w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		}
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Infof(r.Context(), "✅  Returning cached status of transcription job %q", jobName)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		logger.Infof(r.Context(), "✅  Successfully returned status of transcription job %q", jobName)
	}
}
