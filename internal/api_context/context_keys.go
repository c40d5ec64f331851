package api_context

import "context"

type ctxKey string

const JobNameKey ctxKey = "jobName"

func JobNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(JobNameKey).(string)
	return name, ok && name != ""
}

// WithJobName returns a copy of ctx carrying the transcription job name.
func WithJobName(ctx context.Context, jobName string) context.Context {
	return context.WithValue(ctx, JobNameKey, jobName)
}
