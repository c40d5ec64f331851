package video

import (
	"strings"
	"time"
)

const (
	DefaultPartSize      = 10 << 20 // 10 MiB
	DefaultMaxFileSize   = 1 << 30  // 1 GiB
	DefaultMaxAttempts   = 3
	DefaultRetryDelay    = time.Second
	DefaultLanguageCode  = "en-IN"
	DefaultJobNamePrefix = "transcription"
	DefaultListLimit     = 50
)

var AllowedMimeTypes = map[string]string{
	"video/webm":      "webm",
	"video/mp4":       "mp4",
	"video/ogg":       "ogg",
	"video/quicktime": "mp4",
	"audio/webm":      "webm",
	"audio/mpeg":      "mp3",
	"audio/mp4":       "mp4",
	"audio/ogg":       "ogg",
	"audio/wav":       "wav",
	"audio/x-wav":     "wav",
	"audio/flac":      "flac",
}

// normaliseMimeType drops parameters such as "; codecs=vp8" and lowercases.
func normaliseMimeType(mimeType string) string {
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func IsMimeTypeAllowed(mimeType string) bool {
	_, ok := AllowedMimeTypes[normaliseMimeType(mimeType)]
	return ok
}

// MediaFormat returns the transcription media format for an allowed mime type.
func MediaFormat(mimeType string) string {
	return AllowedMimeTypes[normaliseMimeType(mimeType)]
}
