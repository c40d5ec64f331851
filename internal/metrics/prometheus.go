package metrics

import (
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the ingestion pipeline.
type Metrics struct {
	UploadAttempts *prometheus.CounterVec
	PartsUploaded  prometheus.Counter
	PartBytes      prometheus.Histogram
	JobsSubmitted  *prometheus.CounterVec
	StatusPolls    *prometheus.CounterVec
}

// compile-time check: *Metrics must satisfy port.Metrics
var _ port.Metrics = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "videos_upload_attempts_total",
			Help: "Multipart upload attempts by outcome",
		}, []string{"outcome"}),
		PartsUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "videos_upload_parts_total",
			Help: "Total number of parts uploaded to the object store",
		}),
		PartBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "videos_upload_part_size_bytes",
			Help:    "Size of uploaded parts in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8), // 64KiB to 1GiB
		}),
		JobsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "videos_transcription_jobs_submitted_total",
			Help: "Transcription job submissions by outcome",
		}, []string{"outcome"}),
		StatusPolls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "videos_transcription_status_polls_total",
			Help: "Transcription job polls by observed status",
		}, []string{"status"}),
	}
}

func (m *Metrics) UploadAttempt(outcome string) {
	m.UploadAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PartUploaded(sizeBytes int64) {
	m.PartsUploaded.Inc()
	m.PartBytes.Observe(float64(sizeBytes))
}

func (m *Metrics) JobSubmitted(outcome string) {
	m.JobsSubmitted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StatusPolled(status string) {
	m.StatusPolls.WithLabelValues(status).Inc()
}
