package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"database is locked", errors.New("database is locked"), true},
		{"SQLITE_BUSY", errors.New("SQLITE_BUSY"), true},
		{"error code 6", errors.New("error (6): database locked"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"unique violation", errors.New("UNIQUE constraint failed: books.isbn"), false},
		{"restricted delete", errors.New("FOREIGN KEY constraint failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isBusyError(tt.err))
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	b := newBackoff(5)

	for attempt := 0; attempt < 10; attempt++ {
		d := b.delay(attempt)
		assert.GreaterOrEqual(t, d, b.base)
		assert.LessOrEqual(t, d, b.max)
	}
	assert.Equal(t, b.max, b.delay(60))
}

func TestBackoffDo(t *testing.T) {
	fast := backoff{retries: 5, base: time.Millisecond, max: 5 * time.Millisecond}

	t.Run("retries while locked and then succeeds", func(t *testing.T) {
		attempts := 0
		err := fast.do(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns other errors immediately", func(t *testing.T) {
		attempts := 0
		err := fast.do(context.Background(), func() error {
			attempts++
			return errors.New("UNIQUE constraint failed: genres.name")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		b := fast
		b.retries = 2
		attempts := 0
		err := b.do(context.Background(), func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := fast.do(ctx, func() error {
			attempts++
			cancel()
			return errors.New("database is locked")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}
