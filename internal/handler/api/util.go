package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/logger"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError logs err and writes a failure envelope carrying the cause as
// details when there is one.
func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	ctx := context.Background()
	resp := ErrorResponse{Success: false, Error: msg}
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
		resp.Details = err.Error()
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, resp)
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}
