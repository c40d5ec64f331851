package middleware

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/handler/api"
	"github.com/fhuszti/videos-ms-go/internal/validation"
	"github.com/go-chi/chi/v5"
)

// WithJobName resolves the transcription job name from the {jobName} path
// parameter, falling back to the ?jobName= query parameter.
func WithJobName() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "jobName")
			if name == "" {
				name = r.URL.Query().Get("jobName")
			}
			if name == "" {
				api.WriteError(w, http.StatusBadRequest, "Job name is required", nil)
				return
			}
			if err := validation.ValidateJobName(name); err != nil {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Job name %q is not valid", name), nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(api_context.WithJobName(r.Context(), name)))
		})
	}
}
