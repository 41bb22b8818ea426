package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"love-surprise-backend/internal/retry"
)

func recordingPolicy(delays *[]time.Duration) retry.Policy {
	p := retry.DefaultPolicy()
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return p
}

func TestPolicy_SucceedsOnThirdAttempt(t *testing.T) {
	var delays []time.Duration
	p := recordingPolicy(&delays)

	callCount := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, delays)
}

func TestPolicy_Exhausted(t *testing.T) {
	var delays []time.Duration
	p := recordingPolicy(&delays)

	callCount := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		callCount++
		return assert.AnError
	})

	require.Error(t, err)
	assert.Equal(t, 3, callCount)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, delays, 2)
}

func TestPolicy_PermanentErrorStops(t *testing.T) {
	var delays []time.Duration
	p := recordingPolicy(&delays)

	callCount := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		callCount++
		return retry.Permanent(assert.AnError)
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, callCount)
	assert.Empty(t, delays)
}

func TestPolicy_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := retry.Policy{MaxAttempts: 3, BaseDelay: time.Hour}

	callCount := 0
	err := p.Do(ctx, func(ctx context.Context, attempt int) error {
		callCount++
		cancel()
		return assert.AnError
	})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, callCount)
}

func TestValidatePhoto(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int
		wantExt     string
		wantErr     bool
	}{
		{"jpeg", "image/jpeg", 1024, "jpg", false},
		{"png", "image/png", retry.MaxPhotoSize, "png", false},
		{"gif rejected", "image/gif", 1024, "", true},
		{"missing type", "", 1024, "", true},
		{"too large", "image/jpeg", retry.MaxPhotoSize + 1, "", true},
		{"empty", "image/png", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := retry.ValidatePhoto(tt.contentType, tt.size)
			if tt.wantErr {
				assert.ErrorIs(t, err, retry.ErrInvalidFile)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}
