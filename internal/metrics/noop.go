package metrics

import "github.com/fhuszti/videos-ms-go/internal/port"

type NoopMetrics struct{}

// compile-time check: *NoopMetrics must satisfy port.Metrics
var _ port.Metrics = (*NoopMetrics)(nil)

func NewNoop() *NoopMetrics { return &NoopMetrics{} }

func (n *NoopMetrics) UploadAttempt(string) {}
func (n *NoopMetrics) PartUploaded(int64)   {}
func (n *NoopMetrics) JobSubmitted(string)  {}
func (n *NoopMetrics) StatusPolled(string)  {}
