package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/go-chi/chi/v5/middleware"
)

func TestRequestAttrHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(requestAttrHandler{h: slog.NewTextHandler(&buf, nil)})

	l.InfoContext(context.Background(), "no request")
	if !strings.Contains(buf.String(), "req_id=system") {
		t.Errorf("log line = %q; want req_id=system", buf.String())
	}

	buf.Reset()
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "host/abc-000001")
	l.InfoContext(ctx, "with request")
	if !strings.Contains(buf.String(), "req_id=host/abc-000001") {
		t.Errorf("log line = %q; want request id", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestRequestAttrHandler_JobName(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(requestAttrHandler{h: slog.NewTextHandler(&buf, nil)})

	l.InfoContext(context.Background(), "no job")
	if strings.Contains(buf.String(), "job=") {
		t.Errorf("log line = %q; want no job attribute", buf.String())
	}

	buf.Reset()
	l.InfoContext(api_context.WithJobName(context.Background(), "transcription-1"), "with job")
	if !strings.Contains(buf.String(), "job=transcription-1") {
		t.Errorf("log line = %q; want job=transcription-1", buf.String())
	}
}
