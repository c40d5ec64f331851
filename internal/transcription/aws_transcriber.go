package transcription

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/aws/smithy-go"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

var (
	ErrJobNotFound  = errors.New("transcription: job not found")
	ErrJobConflict  = errors.New("transcription: job already exists")
	ErrThrottled    = errors.New("transcription: request throttled")
	ErrBadRequest   = errors.New("transcription: bad request")
	ErrServiceError = errors.New("transcription: service error")
)

type transcribeAPI interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

type AWSTranscriber struct {
	client transcribeAPI
}

// compile-time check: *AWSTranscriber must satisfy port.Transcriber
var _ port.Transcriber = (*AWSTranscriber)(nil)

// NewAWSTranscriber builds a client from the default credential chain.
// A non-empty endpoint overrides the service URL (local emulators).
func NewAWSTranscriber(ctx context.Context, region, endpoint string) (*AWSTranscriber, error) {
	logger.Info(ctx, "initialising transcribe client...")

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := transcribe.NewFromConfig(cfg, func(o *transcribe.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &AWSTranscriber{client: client}, nil
}

func (t *AWSTranscriber) StartJob(ctx context.Context, in port.StartJobInput) error {
	logger.Debugf(ctx, "starting transcription job %q for %q...", in.JobName, in.MediaURI)

	params := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(in.JobName),
		LanguageCode:         types.LanguageCode(in.LanguageCode),
		Media:                &types.Media{MediaFileUri: aws.String(in.MediaURI)},
	}
	if in.MediaFormat != "" {
		params.MediaFormat = types.MediaFormat(in.MediaFormat)
	}
	if in.OutputBucket != "" {
		params.OutputBucketName = aws.String(in.OutputBucket)
	}

	if _, err := t.client.StartTranscriptionJob(ctx, params); err != nil {
		return mapAPIErr(err)
	}
	return nil
}

func (t *AWSTranscriber) GetJob(ctx context.Context, jobName string) (port.JobState, error) {
	logger.Debugf(ctx, "fetching transcription job %q...", jobName)

	out, err := t.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return port.JobState{}, mapAPIErr(err)
	}
	if out.TranscriptionJob == nil {
		return port.JobState{}, fmt.Errorf("%w: empty response for job %q", ErrServiceError, jobName)
	}

	job := out.TranscriptionJob
	state := port.JobState{
		Status:        string(job.TranscriptionJobStatus),
		FailureReason: aws.ToString(job.FailureReason),
	}
	if job.Transcript != nil {
		state.TranscriptURI = aws.ToString(job.Transcript.TranscriptFileUri)
	}
	return state, nil
}

func mapAPIErr(err error) error {
	var notFound *types.NotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrJobNotFound, err)
	}
	var conflict *types.ConflictException
	if errors.As(err, &conflict) {
		return fmt.Errorf("%w: %v", ErrJobConflict, err)
	}
	var limit *types.LimitExceededException
	if errors.As(err, &limit) {
		return fmt.Errorf("%w: %v", ErrThrottled, err)
	}
	var badRequest *types.BadRequestException
	if errors.As(err, &badRequest) {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorFault() {
		case smithy.FaultClient:
			return fmt.Errorf("%w: %s: %s", ErrBadRequest, apiErr.ErrorCode(), apiErr.ErrorMessage())
		default:
			return fmt.Errorf("%w: %s: %s", ErrServiceError, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
	}
	return fmt.Errorf("%w: %v", ErrServiceError, err)
}
