package task

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeReconcileTranscription = "transcription:reconcile"

type ReconcileTranscriptionPayload struct {
	JobName string `json:"job_name"`
}

// NewReconcileTranscriptionTask creates an Asynq task reconciling the record of a transcription job.
func NewReconcileTranscriptionTask(jobName string, opts ...asynq.Option) (*asynq.Task, error) {
	if jobName == "" {
		return nil, errors.New("reconcile-transcription task needs a job name")
	}
	p := ReconcileTranscriptionPayload{JobName: jobName}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal reconcile-transcription payload: %w", err)
	}
	return asynq.NewTask(TypeReconcileTranscription, data, opts...), nil
}

// ParseReconcileTranscriptionPayload parses the task payload to ReconcileTranscriptionPayload.
func ParseReconcileTranscriptionPayload(t *asynq.Task) (ReconcileTranscriptionPayload, error) {
	var p ReconcileTranscriptionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ReconcileTranscriptionPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
