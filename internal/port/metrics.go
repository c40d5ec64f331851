package port

// Metrics records pipeline counters.
type Metrics interface {
	UploadAttempt(outcome string)
	PartUploaded(sizeBytes int64)
	JobSubmitted(outcome string)
	StatusPolled(status string)
}
