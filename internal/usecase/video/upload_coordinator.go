package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type UploadConfig struct {
	PartSize    int64
	MaxFileSize int64
	MaxAttempts int
	RetryDelay  time.Duration
}

func (c UploadConfig) withDefaults() UploadConfig {
	if c.PartSize <= 0 {
		c.PartSize = DefaultPartSize
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// PartCount returns how many parts a file of size bytes is split into.
func PartCount(size, partSize int64) int {
	if size <= 0 || partSize <= 0 {
		return 0
	}
	return int((size + partSize - 1) / partSize)
}

type uploadSessionState string

const (
	sessionInitiated    uploadSessionState = "INITIATED"
	sessionTransferring uploadSessionState = "TRANSFERRING"
	sessionCompleted    uploadSessionState = "COMPLETED"
	sessionAborted      uploadSessionState = "ABORTED"
)

type uploadSession struct {
	transferID string
	key        string
	parts      []port.CompletedPart
	bytes      int64
	state      uploadSessionState
}

func (s *uploadSession) addPart(partNumber int, etag string, size int64) error {
	if want := len(s.parts) + 1; partNumber != want {
		return fmt.Errorf("part %d recorded out of order, expected %d", partNumber, want)
	}
	if etag == "" {
		return fmt.Errorf("part %d has no tag", partNumber)
	}
	s.parts = append(s.parts, port.CompletedPart{PartNumber: partNumber, ETag: etag, SizeBytes: size})
	s.bytes += size
	s.state = sessionTransferring
	return nil
}

// verify checks that the session holds exactly ceil(size/partSize) tagged
// parts numbered 1..n covering size bytes.
func (s *uploadSession) verify(size, partSize int64) error {
	if want := PartCount(size, partSize); len(s.parts) != want {
		return fmt.Errorf("session has %d parts, expected %d", len(s.parts), want)
	}
	for i, p := range s.parts {
		if p.PartNumber != i+1 || p.ETag == "" {
			return fmt.Errorf("part list is not contiguous at position %d", i+1)
		}
	}
	if s.bytes != size {
		return fmt.Errorf("session covers %d bytes, expected %d", s.bytes, size)
	}
	return nil
}

type uploadCoordinatorSrv struct {
	strg    port.ObjectStore
	metrics port.Metrics
	cfg     UploadConfig
	wait    func(ctx context.Context, d time.Duration) error
}

// compile-time check: *uploadCoordinatorSrv must satisfy port.Uploader
var _ port.Uploader = (*uploadCoordinatorSrv)(nil)

func NewUploadCoordinator(strg port.ObjectStore, metrics port.Metrics, cfg UploadConfig) port.Uploader {
	return &uploadCoordinatorSrv{
		strg:    strg,
		metrics: metrics,
		cfg:     cfg.withDefaults(),
		wait:    sleepContext,
	}
}

// Upload validates the input then runs whole-transfer attempts until one
// completes or the attempt budget is spent. Each attempt uses a fresh
// multipart session; failed sessions are aborted and never resumed.
func (s *uploadCoordinatorSrv) Upload(ctx context.Context, in port.UploadInput) (port.ObjectLocation, error) {
	if !IsMimeTypeAllowed(in.ContentType) {
		return port.ObjectLocation{}, fmt.Errorf("%w: %q", ErrInvalidMediaType, in.ContentType)
	}
	if in.SizeBytes <= 0 {
		return port.ObjectLocation{}, ErrEmptyFile
	}
	if in.SizeBytes > s.cfg.MaxFileSize {
		return port.ObjectLocation{}, fmt.Errorf("%w: %s exceeds the %s limit",
			ErrFileTooLarge, humanize.IBytes(uint64(in.SizeBytes)), humanize.IBytes(uint64(s.cfg.MaxFileSize)))
	}

	logger.Infof(ctx, "uploading %q (%s) in %d part(s)...",
		in.Key, humanize.IBytes(uint64(in.SizeBytes)), PartCount(in.SizeBytes, s.cfg.PartSize))

	buf := make([]byte, min(s.cfg.PartSize, in.SizeBytes))
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * s.cfg.RetryDelay
			logger.Warnf(ctx, "retrying upload of %q in %s (attempt %d/%d) after: %v",
				in.Key, delay, attempt, s.cfg.MaxAttempts, lastErr)
			if err := s.wait(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		attempts++
		loc, err := s.attempt(ctx, in, buf)
		if err == nil {
			s.metrics.UploadAttempt("success")
			return loc, nil
		}
		s.metrics.UploadAttempt("failure")
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return port.ObjectLocation{}, fmt.Errorf("%w after %d attempt(s): %w", ErrUploadFailed, attempts, lastErr)
}

func (s *uploadCoordinatorSrv) attempt(ctx context.Context, in port.UploadInput, buf []byte) (port.ObjectLocation, error) {
	if _, err := in.Source.Seek(0, io.SeekStart); err != nil {
		return port.ObjectLocation{}, fmt.Errorf("rewind source: %w", err)
	}

	transferID, err := s.strg.CreateTransfer(ctx, in.Key, in.ContentType)
	if err != nil {
		return port.ObjectLocation{}, fmt.Errorf("create transfer: %w", err)
	}
	sess := &uploadSession{transferID: transferID, key: in.Key, state: sessionInitiated}
	defer func() {
		if sess.state != sessionCompleted {
			s.abort(ctx, sess)
		}
	}()

	remaining := in.SizeBytes
	for partNumber := 1; remaining > 0; partNumber++ {
		n := min(s.cfg.PartSize, remaining)
		chunk := buf[:n]
		if _, err := io.ReadFull(in.Source, chunk); err != nil {
			return port.ObjectLocation{}, fmt.Errorf("read part %d: %w", partNumber, err)
		}

		etag, err := s.strg.UploadPart(ctx, in.Key, transferID, partNumber, bytes.NewReader(chunk), n)
		if err != nil {
			return port.ObjectLocation{}, fmt.Errorf("upload part %d: %w", partNumber, err)
		}
		if err := sess.addPart(partNumber, etag, n); err != nil {
			return port.ObjectLocation{}, err
		}
		s.metrics.PartUploaded(n)
		remaining -= n
	}

	if err := sess.verify(in.SizeBytes, s.cfg.PartSize); err != nil {
		return port.ObjectLocation{}, err
	}

	loc, err := s.strg.CompleteTransfer(ctx, in.Key, transferID, sess.parts)
	if err != nil {
		return port.ObjectLocation{}, fmt.Errorf("complete transfer: %w", err)
	}
	sess.state = sessionCompleted
	if loc.SizeBytes == 0 {
		loc.SizeBytes = sess.bytes
	}
	return loc, nil
}

func (s *uploadCoordinatorSrv) abort(ctx context.Context, sess *uploadSession) {
	abortCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.strg.AbortTransfer(abortCtx, sess.key, sess.transferID); err != nil {
		logger.Warnf(ctx, "could not abort transfer %q for %q: %v", sess.transferID, sess.key, err)
		return
	}
	sess.state = sessionAborted
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
