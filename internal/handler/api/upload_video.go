package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

const (
	DefaultFileName = "recording.webm"
	fileField       = "file"
	fileNameHeader  = "X-File-Name"
)

var (
	errMissingFile        = errors.New(`multipart body has no "file" part`)
	errUnsupportedPayload = errors.New("body must be multipart/form-data or a raw audio/video stream")
)

type UploadVideoResponse struct {
	Success bool `json:"success"`
	port.IngestVideoOutput
}

// UploadVideoHandler accepts either a multipart form with a "file" field or a
// raw media body and streams it into the ingestion pipeline.
func UploadVideoHandler(svc port.VideoIngester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := ingestInput(r)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid upload request", err)
			return
		}

		out, err := svc.IngestVideo(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, video.ErrValidation):
				WriteError(w, http.StatusBadRequest, "Invalid video", err)
			case errors.Is(err, video.ErrUploadFailed):
				WriteError(w, http.StatusInternalServerError, "Failed to upload video", err)
			case errors.Is(err, video.ErrTranscriptionSubmitFailed):
				WriteError(w, http.StatusInternalServerError, "Failed to start transcription job", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not process video", err)
			}
			return
		}

		RespondJSON(w, http.StatusOK, UploadVideoResponse{Success: true, IngestVideoOutput: out})
		logger.Infof(r.Context(), "✅  Successfully uploaded video #%s, transcription job %q", out.ID, out.TranscriptionJobName)
	}
}

func ingestInput(r *http.Request) (port.IngestVideoInput, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return port.IngestVideoInput{}, fmt.Errorf("%w: %v", errUnsupportedPayload, err)
	}

	switch {
	case mediaType == "multipart/form-data":
		return multipartInput(r)
	case strings.HasPrefix(mediaType, "video/"),
		strings.HasPrefix(mediaType, "audio/"),
		mediaType == "application/octet-stream":
		return port.IngestVideoInput{
			Name:     fileName(r, ""),
			MimeType: r.Header.Get("Content-Type"),
			Body:     r.Body,
		}, nil
	default:
		return port.IngestVideoInput{}, fmt.Errorf("%w: got %q", errUnsupportedPayload, mediaType)
	}
}

// multipartInput streams the "file" part without buffering the whole form.
func multipartInput(r *http.Request) (port.IngestVideoInput, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return port.IngestVideoInput{}, err
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return port.IngestVideoInput{}, errMissingFile
		}
		if err != nil {
			return port.IngestVideoInput{}, fmt.Errorf("read multipart body: %w", err)
		}
		if part.FormName() != fileField {
			continue
		}
		return port.IngestVideoInput{
			Name:     fileName(r, part.FileName()),
			MimeType: part.Header.Get("Content-Type"),
			Body:     part,
		}, nil
	}
}

func fileName(r *http.Request, fromPart string) string {
	if fromPart != "" {
		return fromPart
	}
	if n := r.Header.Get(fileNameHeader); n != "" {
		return n
	}
	if n := r.URL.Query().Get("name"); n != "" {
		return n
	}
	return DefaultFileName
}
