package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type TranscriptionStatus string

const (
	TranscriptionStatusInProgress TranscriptionStatus = "IN_PROGRESS"
	TranscriptionStatusCompleted  TranscriptionStatus = "COMPLETED"
	TranscriptionStatusFailed     TranscriptionStatus = "FAILED"
)

// Valid reports whether s is one of the three persisted statuses.
func (s TranscriptionStatus) Valid() bool {
	switch s {
	case TranscriptionStatusInProgress, TranscriptionStatusCompleted, TranscriptionStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s TranscriptionStatus) IsTerminal() bool {
	return s == TranscriptionStatusCompleted || s == TranscriptionStatusFailed
}

func (s TranscriptionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("TranscriptionStatus.Value: unknown status %q", string(s))
	}
	return string(s), nil
}

func (s *TranscriptionStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("TranscriptionStatus.Scan: expected []byte or string, got %T", src)
	}
	st := TranscriptionStatus(raw)
	if !st.Valid() {
		return fmt.Errorf("TranscriptionStatus.Scan: unknown status %q", raw)
	}
	*s = st
	return nil
}

// Video is the durable record of an uploaded media asset and the
// transcription job attached to it.
type Video struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Bucket    string    `json:"bucket"`
	ObjectKey string    `json:"objectKey"`
	URL       string    `json:"videoUrl"`
	SizeBytes int64     `json:"sizeBytes"`
	MimeType  string    `json:"mimeType"`

	TranscriptionJobName string              `json:"transcriptionJobName"`
	TranscriptionStatus  TranscriptionStatus `json:"transcriptionStatus"`
	TranscriptURL        *string             `json:"transcriptUrl,omitempty"`
	FailureMessage       *string             `json:"failureMessage,omitempty"`
	LastObservedAt       time.Time           `json:"lastObservedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StagedFile is a media stream written to scratch storage for the
// duration of a single ingestion.
type StagedFile struct {
	Path      string
	Name      string
	SizeBytes int64
}
