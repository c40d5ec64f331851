package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

func multipartBody(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("note", "ignored"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadVideoHandler_Multipart(t *testing.T) {
	id, _ := uuid.Parse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	svc := &mock.VideoIngester{Out: port.IngestVideoOutput{
		ID:                   id,
		VideoURL:             "https://minio.example.com/videos/" + id.String() + "/clip.webm",
		TranscriptionJobName: "transcription-1",
		FileDetails:          port.FileDetails{Name: "clip.webm", Size: 5, Type: "video/webm"},
	}}
	body, ct := multipartBody(t, "file", "clip.webm", "video/webm", "hello")

	req := httptest.NewRequest(http.MethodPost, "/videos/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	UploadVideoHandler(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body=%s", rec.Code, rec.Body.String())
	}
	if svc.GotIn.Name != "clip.webm" || svc.GotIn.MimeType != "video/webm" {
		t.Errorf("ingest input = %+v", svc.GotIn)
	}
	if string(svc.GotBody) != "hello" {
		t.Errorf("streamed body = %q; want hello", svc.GotBody)
	}

	var resp struct {
		Success              bool             `json:"success"`
		ID                   string           `json:"id"`
		VideoURL             string           `json:"videoUrl"`
		TranscriptionJobName string           `json:"transcriptionJobName"`
		FileDetails          port.FileDetails `json:"fileDetails"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.Success || resp.ID != id.String() || resp.TranscriptionJobName != "transcription-1" {
		t.Errorf("response = %+v", resp)
	}
	if resp.VideoURL != svc.Out.VideoURL || resp.FileDetails != svc.Out.FileDetails {
		t.Errorf("response = %+v", resp)
	}
}

func TestUploadVideoHandler_RawBody(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		header   string
		wantName string
	}{
		{"default name", "/videos/upload", "", DefaultFileName},
		{"name from query", "/videos/upload?name=talk.mp4", "", "talk.mp4"},
		{"name from header", "/videos/upload?name=ignored.mp4", "demo.webm", "demo.webm"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.VideoIngester{}
			req := httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader("raw-bytes"))
			req.Header.Set("Content-Type", "video/webm;codecs=vp8")
			if tc.header != "" {
				req.Header.Set(fileNameHeader, tc.header)
			}
			rec := httptest.NewRecorder()

			UploadVideoHandler(svc)(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; want 200", rec.Code)
			}
			if svc.GotIn.Name != tc.wantName {
				t.Errorf("name = %q; want %q", svc.GotIn.Name, tc.wantName)
			}
			if svc.GotIn.MimeType != "video/webm;codecs=vp8" {
				t.Errorf("mime = %q", svc.GotIn.MimeType)
			}
			if string(svc.GotBody) != "raw-bytes" {
				t.Errorf("body = %q", svc.GotBody)
			}
		})
	}
}

func TestUploadVideoHandler_Errors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        func(t *testing.T) (*bytes.Buffer, string)
		svcErr      error
		wantStatus  int
		wantError   string
		wantCalled  bool
	}{
		{
			name:        "json body",
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantError:   "Invalid upload request",
		},
		{
			name:       "missing content type",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid upload request",
		},
		{
			name: "multipart without file part",
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, "attachment", "clip.webm", "video/webm", "x")
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid upload request",
		},
		{
			name:        "validation error",
			contentType: "video/webm",
			svcErr:      video.ErrInvalidMediaType,
			wantStatus:  http.StatusBadRequest,
			wantError:   "Invalid video",
			wantCalled:  true,
		},
		{
			name:        "upload exhausted",
			contentType: "video/webm",
			svcErr:      fmt.Errorf("%w after 3 attempt(s): %w", video.ErrUploadFailed, errors.New("reset")),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Failed to upload video",
			wantCalled:  true,
		},
		{
			name:        "submission failed",
			contentType: "video/webm",
			svcErr:      video.ErrTranscriptionSubmitFailed,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Failed to start transcription job",
			wantCalled:  true,
		},
		{
			name:        "persistence failed",
			contentType: "video/webm",
			svcErr:      video.ErrPersistence,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Could not process video",
			wantCalled:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.VideoIngester{Err: tc.svcErr}

			body, ct := bytes.NewBufferString("payload"), tc.contentType
			if tc.body != nil {
				body, ct = tc.body(t)
			}
			req := httptest.NewRequest(http.MethodPost, "/videos/upload", body)
			if ct != "" {
				req.Header.Set("Content-Type", ct)
			}
			rec := httptest.NewRecorder()

			UploadVideoHandler(svc)(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if cc := rec.Header().Get("Cache-Control"); cc != "no-store, max-age=0, must-revalidate" {
				t.Errorf("Cache-Control = %q", cc)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON error body: %v", err)
			}
			if resp.Success || resp.Error != tc.wantError {
				t.Errorf("response = %+v; want error %q", resp, tc.wantError)
			}
			if resp.Details == "" {
				t.Error("expected the cause in details")
			}
			if svc.Called != tc.wantCalled {
				t.Errorf("service called = %v; want %v", svc.Called, tc.wantCalled)
			}
		})
	}
}
