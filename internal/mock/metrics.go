package mock

import "sync"

// Metrics records counter calls for tests.
type Metrics struct {
	mu sync.Mutex

	UploadAttempts map[string]int
	Parts          int
	PartBytes      int64
	JobsSubmitted  map[string]int
	StatusPolls    map[string]int
}

func (m *Metrics) UploadAttempt(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadAttempts == nil {
		m.UploadAttempts = map[string]int{}
	}
	m.UploadAttempts[outcome]++
}

func (m *Metrics) PartUploaded(sizeBytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Parts++
	m.PartBytes += sizeBytes
}

func (m *Metrics) JobSubmitted(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.JobsSubmitted == nil {
		m.JobsSubmitted = map[string]int{}
	}
	m.JobsSubmitted[outcome]++
}

func (m *Metrics) StatusPolled(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatusPolls == nil {
		m.StatusPolls = map[string]int{}
	}
	m.StatusPolls[status]++
}
