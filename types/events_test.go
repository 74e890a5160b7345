package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeStarted tests decoding of the job-creating event
func TestDecodeStarted(t *testing.T) {
	raw := []byte(`{"type":"GENERATION_STARTED","payload":{"generationId":"g1","prompt":"lofi beats","progress":0,"createdAt":"2026-08-01T10:00:00Z"}}`)

	ev, err := DecodeEvent(raw)
	require.NoError(t, err)

	started, ok := ev.(*GenerationStarted)
	require.True(t, ok)
	assert.Equal(t, "g1", started.GenerationID)
	assert.Equal(t, "lofi beats", started.Prompt)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), started.CreatedAt)
	assert.Equal(t, EventGenerationStarted, started.Kind())
}

// TestDecodeProgress tests decoding of a progress update
func TestDecodeProgress(t *testing.T) {
	raw := []byte(`{"type":"GENERATION_PROGRESS","payload":{"generationId":"g1","status":"generating","progress":42}}`)

	ev, err := DecodeEvent(raw)
	require.NoError(t, err)

	prog, ok := ev.(*GenerationProgress)
	require.True(t, ok)
	assert.Equal(t, JobStatusGenerating, prog.Status)
	assert.Equal(t, 42, prog.Progress)
}

// TestDecodeUnknownType tests that an unrecognized event type is an error
func TestDecodeUnknownType(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"GENERATION_RESUMED","payload":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATION_RESUMED")
}

// TestDecodeGarbage tests that non-JSON input is an error, not a panic
func TestDecodeGarbage(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := DecodeEvent([]byte("not json at all"))
		assert.Error(t, err)
	})
}

// TestEncodeDecodeRoundTrip tests the wire framing both ways for the
// terminal events
func TestEncodeDecodeRoundTrip(t *testing.T) {
	complete := &GenerationComplete{
		GenerationID: "g9",
		Title:        "Neon Skyline",
		Description:  "an upbeat synthwave track",
		Image:        "http://localhost/cover/g9.jpg",
		AudioURL:     "http://localhost/stream/g9.mp3",
	}
	data, err := EncodeEvent(complete)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, complete, decoded)

	failed := &GenerationFailed{GenerationID: "g9", Error: "synthesis failed"}
	data, err = EncodeEvent(failed)
	require.NoError(t, err)

	decoded, err = DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, failed, decoded)
}
