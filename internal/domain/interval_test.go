package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hour, min int) time.Time {
	return time.Date(2025, 10, 15, hour, min, 0, 0, time.UTC)
}

func TestNewTimeInterval(t *testing.T) {
	t.Run("valid interval", func(t *testing.T) {
		iv, err := NewTimeInterval(ts(10, 0), ts(11, 0))
		require.NoError(t, err)
		assert.Equal(t, 60, iv.DurationMinutes())
	})

	t.Run("start equals end", func(t *testing.T) {
		_, err := NewTimeInterval(ts(10, 0), ts(10, 0))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := NewTimeInterval(ts(11, 0), ts(10, 0))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestIntervalFromDuration(t *testing.T) {
	t.Run("positive duration", func(t *testing.T) {
		iv, err := IntervalFromDuration(ts(14, 0), 30)
		require.NoError(t, err)
		assert.Equal(t, ts(14, 30), iv.End)
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		_, err := IntervalFromDuration(ts(14, 0), 0)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("negative duration rejected", func(t *testing.T) {
		_, err := IntervalFromDuration(ts(14, 0), -15)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestTimeIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a        TimeInterval
		b        TimeInterval
		overlaps bool
	}{
		{
			name:     "partial overlap",
			a:        TimeInterval{Start: ts(14, 0), End: ts(14, 30)},
			b:        TimeInterval{Start: ts(14, 15), End: ts(14, 45)},
			overlaps: true,
		},
		{
			name:     "contained interval",
			a:        TimeInterval{Start: ts(10, 0), End: ts(12, 0)},
			b:        TimeInterval{Start: ts(10, 30), End: ts(11, 0)},
			overlaps: true,
		},
		{
			name:     "identical intervals",
			a:        TimeInterval{Start: ts(10, 0), End: ts(11, 0)},
			b:        TimeInterval{Start: ts(10, 0), End: ts(11, 0)},
			overlaps: true,
		},
		{
			name:     "touching endpoints do not overlap",
			a:        TimeInterval{Start: ts(10, 0), End: ts(11, 0)},
			b:        TimeInterval{Start: ts(11, 0), End: ts(12, 0)},
			overlaps: false,
		},
		{
			name:     "touching endpoints reversed",
			a:        TimeInterval{Start: ts(11, 0), End: ts(12, 0)},
			b:        TimeInterval{Start: ts(10, 0), End: ts(11, 0)},
			overlaps: false,
		},
		{
			name:     "disjoint intervals",
			a:        TimeInterval{Start: ts(9, 0), End: ts(10, 0)},
			b:        TimeInterval{Start: ts(15, 0), End: ts(16, 0)},
			overlaps: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeIntervalContains(t *testing.T) {
	iv := TimeInterval{Start: ts(10, 0), End: ts(11, 0)}

	assert.True(t, iv.Contains(ts(10, 0)), "start is inside the half-open interval")
	assert.True(t, iv.Contains(ts(10, 59)))
	assert.False(t, iv.Contains(ts(11, 0)), "end is outside the half-open interval")
	assert.False(t, iv.Contains(ts(9, 59)))
}
