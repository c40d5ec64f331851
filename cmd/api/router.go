package main

import (
	"net/http"

	"github.com/fhuszti/videos-ms-go/internal/handler/api"
	cMiddleware "github.com/fhuszti/videos-ms-go/internal/middleware"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type services struct {
	ingester     port.VideoIngester
	statusGetter port.TranscriptionStatusGetter
	lister       port.VideoLister
	renderer     port.HTTPRenderer
	metrics      http.Handler
}

func newRouter(svc services) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Post("/videos/upload", api.UploadVideoHandler(svc.ingester))

	statusHandler := api.GetTranscriptionStatusHandler(svc.renderer, svc.statusGetter)
	r.With(cMiddleware.WithJobName()).Get("/videos/transcription", statusHandler)
	r.With(cMiddleware.WithJobName()).Get("/videos/transcription/{jobName}", statusHandler)

	r.Get("/videos", api.ListVideosHandler(svc.lister))

	if svc.metrics != nil {
		r.Method(http.MethodGet, "/metrics", svc.metrics)
	}

	return r
}
