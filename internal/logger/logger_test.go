package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	assert := require.New(t)

	event := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	got := formatTimestamp(event.Format(time.RFC3339))

	// The output is the event's instant, not the formatting time.
	parsed, err := time.Parse(time.RFC3339, got)
	assert.NoError(err)
	assert.True(parsed.Equal(event))
}

func TestFormatTimestampPassThrough(t *testing.T) {
	assert := require.New(t)

	assert.Equal("not-a-time", formatTimestamp("not-a-time"))
	assert.Equal("42", formatTimestamp(42))
}
