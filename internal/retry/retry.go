package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second

	MaxPhotoSize = 5 * 1024 * 1024
)

var ErrInvalidFile = errors.New("invalid file")

var acceptedMimeTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// Policy retries an operation with a linear backoff of attempt × BaseDelay
// between attempts.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Sleep:       sleepContext,
	}
}

// permanentError stops the retry loop.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn until it succeeds, returns a permanent error, the attempts are
// exhausted or ctx is cancelled.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		if err := sleep(ctx, time.Duration(attempt)*p.BaseDelay); err != nil {
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, err)
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

// ValidatePhoto checks the MIME type and size ceiling once, before any upload
// attempt. It returns the file extension to store the photo under.
func ValidatePhoto(contentType string, size int) (string, error) {
	ext, ok := acceptedMimeTypes[contentType]
	if !ok {
		if contentType == "" {
			contentType = "unknown"
		}
		return "", fmt.Errorf("%w: unsupported type %s", ErrInvalidFile, contentType)
	}
	if size <= 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidFile)
	}
	if size > MaxPhotoSize {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrInvalidFile, size, MaxPhotoSize)
	}
	return ext, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
