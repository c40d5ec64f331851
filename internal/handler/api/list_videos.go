package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

type ListVideosResponse struct {
	Success bool           `json:"success"`
	Videos  []*model.Video `json:"videos"`
}

func ListVideosHandler(svc port.VideoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in port.ListVideosInput
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Invalid limit", fmt.Errorf("limit %q is not a number", raw))
				return
			}
			in.Limit = limit
		}

		videos, err := svc.ListVideos(r.Context(), in)
		if err != nil {
			if errors.Is(err, video.ErrValidation) {
				WriteError(w, http.StatusBadRequest, "Invalid limit", err)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not list videos", err)
			return
		}
		if videos == nil {
			videos = []*model.Video{}
		}

		w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		RespondJSON(w, http.StatusOK, ListVideosResponse{Success: true, Videos: videos})
		logger.Infof(r.Context(), "✅  Successfully listed %d video(s)", len(videos))
	}
}
