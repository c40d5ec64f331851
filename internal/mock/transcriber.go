package mock

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

// Transcriber implements port.Transcriber for tests. GetJob returns the
// entries of States in order and repeats the last one once exhausted.
type Transcriber struct {
	StartErr error
	GetErr   error
	States   []port.JobState

	Started  []port.StartJobInput
	GetCalls int
	GotJob   string
}

func (t *Transcriber) StartJob(ctx context.Context, in port.StartJobInput) error {
	t.Started = append(t.Started, in)
	return t.StartErr
}

func (t *Transcriber) GetJob(ctx context.Context, jobName string) (port.JobState, error) {
	t.GetCalls++
	t.GotJob = jobName
	if t.GetErr != nil {
		return port.JobState{}, t.GetErr
	}
	if len(t.States) == 0 {
		return port.JobState{Status: "IN_PROGRESS"}, nil
	}
	i := t.GetCalls - 1
	if i >= len(t.States) {
		i = len(t.States) - 1
	}
	return t.States[i], nil
}
