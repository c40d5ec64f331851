package video

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrInvalidMediaType = fmt.Errorf("%w: media type is not allowed", ErrValidation)
	ErrEmptyFile        = fmt.Errorf("%w: file is empty", ErrValidation)
	ErrFileTooLarge     = fmt.Errorf("%w: file is too large", ErrValidation)
	ErrMissingJobName   = fmt.Errorf("%w: transcription job name is required", ErrValidation)

	ErrUploadFailed              = errors.New("upload failed")
	ErrTranscriptionSubmitFailed = errors.New("transcription job submission failed")
	ErrTranscriptionPollFailed   = errors.New("transcription job poll failed")
	ErrRecordNotFound            = errors.New("video record not found")
	ErrPersistence               = errors.New("video record persistence failed")
)

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)
