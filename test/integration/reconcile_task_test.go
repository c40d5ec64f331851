package integration

import (
	"context"
	"testing"
	"time"

	workerHandler "github.com/fhuszti/videos-ms-go/internal/handler/worker"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/fhuszti/videos-ms-go/test/testutil"
	"github.com/hibiken/asynq"
)

func resetRedis(t *testing.T) {
	t.Helper()
	if err := flushRedis(); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
}

func TestReconcileTaskIntegration_EnqueueIsDeduplicated(t *testing.T) {
	resetRedis(t)
	ctx := context.Background()

	d := task.NewDispatcher(redisAddr, "", time.Minute, 5)
	defer func() { _ = d.Close() }()

	if err := d.EnqueueReconcileTranscription(ctx, "job-1"); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := d.EnqueueReconcileTranscription(ctx, "job-1"); err != nil {
		t.Fatalf("second enqueue: %v", err)
	}

	insp := asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr})
	defer func() { _ = insp.Close() }()

	info, err := insp.GetTaskInfo("default", "reconcile:job-1")
	if err != nil {
		t.Fatalf("GetTaskInfo: %v", err)
	}
	if info.State != asynq.TaskStateScheduled {
		t.Errorf("state = %s; want scheduled", info.State)
	}
	if info.Type != task.TypeReconcileTranscription {
		t.Errorf("type = %q", info.Type)
	}
	if info.MaxRetry != 5 {
		t.Errorf("max retry = %d; want 5", info.MaxRetry)
	}

	scheduled, err := insp.ListScheduledTasks("default")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(scheduled) != 1 {
		t.Errorf("scheduled %d tasks; want 1", len(scheduled))
	}
}

func TestReconcileTaskIntegration_SettlesRecord(t *testing.T) {
	resetRedis(t)
	ctx := context.Background()

	repo := mariadb.NewVideoRepository(testutil.SetupTestDB(t))
	v := newVideo("job-1", time.Now().UTC())
	if err := video.NewStatusReconciler(repo).RecordCreated(ctx, v, "job-1"); err != nil {
		t.Fatalf("RecordCreated: %v", err)
	}

	tr := &mock.Transcriber{States: []port.JobState{
		{Status: "IN_PROGRESS"},
		{Status: "COMPLETED", TranscriptURI: "https://s3/transcripts/job-1.json"},
	}}
	jobs := video.NewTranscriptionJobManager(tr, metrics.NewNoop(), video.TranscriptionConfig{}, uuid.NewUUID)
	statusGetter := video.NewTranscriptionStatusGetter(repo, jobs, video.NewStatusReconciler(repo))

	done := make(chan struct{}, 1)
	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeReconcileTranscription, func(ctx context.Context, tk *asynq.Task) error {
		p, err := task.ParseReconcileTranscriptionPayload(tk)
		if err != nil {
			return err
		}
		err = workerHandler.ReconcileTranscriptionHandler(ctx, p, statusGetter)
		if err == nil {
			done <- struct{}{}
		}
		return err
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency:              1,
		RetryDelayFunc:           func(int, error, *asynq.Task) time.Duration { return 100 * time.Millisecond },
		DelayedTaskCheckInterval: 100 * time.Millisecond,
		ShutdownTimeout:          5 * time.Second,
	})
	if err := srv.Start(mux); err != nil {
		t.Fatalf("start worker: %v", err)
	}
	defer srv.Shutdown()

	d := task.NewDispatcher(redisAddr, "", time.Second, 5)
	defer func() { _ = d.Close() }()
	if err := d.EnqueueReconcileTranscription(ctx, "job-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("reconcile task did not settle the record in time")
	}

	got, err := repo.GetByJobName(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetByJobName: %v", err)
	}
	if got.TranscriptionStatus != model.TranscriptionStatusCompleted {
		t.Errorf("status = %s; want COMPLETED", got.TranscriptionStatus)
	}
	if got.TranscriptURL == nil || *got.TranscriptURL != "https://s3/transcripts/job-1.json" {
		t.Errorf("transcript url = %v", got.TranscriptURL)
	}
	if tr.GetCalls != 2 {
		t.Errorf("polled %d times; want 2", tr.GetCalls)
	}
}
