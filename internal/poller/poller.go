package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
)

const (
	DefaultInitialInterval = 5 * time.Second
	DefaultMaxInterval     = time.Minute
	DefaultMaxElapsed      = 30 * time.Minute
	DefaultMaxPolls        = 60
	multiplier             = 2
	maxErrorBody           = 4 << 10

	// error the API answers for a job name it has no record of
	unknownJobMessage = "Transcription job not found"
)

var (
	// ErrPollingAbandoned is returned when the poll budget or the context
	// ran out before the job reached a terminal state.
	ErrPollingAbandoned = errors.New("polling abandoned")
	// ErrRejected is returned when the service answered with a 4xx status.
	ErrRejected = errors.New("status request rejected")
	// ErrUnknownJob is returned when the service has no record of the job.
	ErrUnknownJob = errors.New("unknown transcription job")

	errStillInProgress = errors.New("transcription job still in progress")
)

type Config struct {
	BaseURL         string
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
	MaxPolls        int
	// Jitter is the randomization factor applied to every interval.
	Jitter float64
}

// Result is the terminal answer of the status endpoint.
type Result struct {
	JobName       string                    `json:"jobName"`
	Status        model.TranscriptionStatus `json:"status"`
	TranscriptURL string                    `json:"transcriptUrl,omitempty"`
	Error         string                    `json:"error,omitempty"`
	Polls         int                       `json:"polls"`
}

type statusBody struct {
	Success       bool                      `json:"success"`
	Status        model.TranscriptionStatus `json:"status"`
	TranscriptURL string                    `json:"transcriptUrl"`
	Message       string                    `json:"message"`
	Error         string                    `json:"error"`
	Details       string                    `json:"details"`
}

type Poller struct {
	cfg    Config
	client *http.Client
}

// New returns a Poller for the videos service at cfg.BaseURL. Zero budget
// fields fall back to the package defaults.
func New(cfg Config, client *http.Client) *Poller {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultInitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = DefaultMaxInterval
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = DefaultMaxElapsed
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = DefaultMaxPolls
	}
	if client == nil {
		client = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Poller{cfg: cfg, client: client}
}

func (p *Poller) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.InitialInterval
	b.Multiplier = multiplier
	b.MaxInterval = p.cfg.MaxInterval
	b.MaxElapsedTime = p.cfg.MaxElapsed
	b.RandomizationFactor = p.cfg.Jitter
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.cfg.MaxPolls-1)), ctx)
}

// Poll queries the status of jobName until it is COMPLETED or FAILED. A FAILED
// job is a successful poll: its reason is carried in Result.Error.
func (p *Poller) Poll(ctx context.Context, jobName string) (Result, error) {
	if jobName == "" {
		return Result{}, fmt.Errorf("%w: job name is required", ErrRejected)
	}

	res := Result{JobName: jobName}
	op := func() error {
		res.Polls++
		body, err := p.fetch(ctx, jobName)
		if err != nil {
			return err
		}
		switch body.Status {
		case model.TranscriptionStatusCompleted, model.TranscriptionStatusFailed:
			res.Status = body.Status
			res.TranscriptURL = body.TranscriptURL
			res.Error = body.Error
			return nil
		case model.TranscriptionStatusInProgress:
			return errStillInProgress
		default:
			return backoff.Permanent(fmt.Errorf("unexpected transcription status %q", body.Status))
		}
	}
	notify := func(err error, next time.Duration) {
		logger.Debugf(ctx, "poll %d of job %q: %v, next in %s", res.Polls, jobName, err, next)
	}

	err := backoff.RetryNotify(op, p.backOff(ctx), notify)
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if !errors.Is(err, ctxErr) {
			err = errors.Join(ctxErr, err)
		}
		return res, fmt.Errorf("%w after %d poll(s): %w", ErrPollingAbandoned, res.Polls, err)
	}
	if errors.Is(err, errStillInProgress) || retryable(err) {
		return res, fmt.Errorf("%w after %d poll(s): %w", ErrPollingAbandoned, res.Polls, err)
	}
	return res, err
}

// fetch performs a single status request. Non-retryable failures are
// wrapped with backoff.Permanent.
func (p *Poller) fetch(ctx context.Context, jobName string) (statusBody, error) {
	endpoint := p.cfg.BaseURL + "/videos/transcription/" + url.PathEscape(jobName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return statusBody{}, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return statusBody{}, &transientError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var body statusBody
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)

	switch {
	case resp.StatusCode >= http.StatusInternalServerError && body.Error == unknownJobMessage:
		return statusBody{}, backoff.Permanent(fmt.Errorf("%w: %q", ErrUnknownJob, jobName))
	case resp.StatusCode >= http.StatusInternalServerError:
		return statusBody{}, &transientError{err: fmt.Errorf("server answered %d: %s", resp.StatusCode, describe(body))}
	case resp.StatusCode >= http.StatusBadRequest:
		return statusBody{}, backoff.Permanent(fmt.Errorf("%w: %d: %s", ErrRejected, resp.StatusCode, describe(body)))
	case decodeErr != nil:
		return statusBody{}, backoff.Permanent(fmt.Errorf("decode status response: %w", decodeErr))
	}
	return body, nil
}

func describe(b statusBody) string {
	msg := b.Error
	if msg == "" {
		msg = "no error message"
	}
	if b.Details != "" {
		msg += " (" + b.Details + ")"
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}

// transientError marks transport and 5xx failures, which are retried within the budget.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
