package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/types"
)

func session(id string) *types.PlaybackSession {
	return &types.PlaybackSession{
		ID:       id,
		Title:    "Track " + id,
		AudioURL: "http://localhost/stream/" + id,
	}
}

// TestSetNowPlayingStartsPlayback tests that loading a session flips the
// playing flag and rewinds
func TestSetNowPlayingStartsPlayback(t *testing.T) {
	s := NewPlaybackStore()
	s.SetCurrentTime(12.5)

	s.SetNowPlaying(session("a"))

	require.NotNil(t, s.NowPlaying())
	assert.Equal(t, "a", s.NowPlaying().ID)
	assert.True(t, s.State().IsPlaying)
	assert.Zero(t, s.State().CurrentTime)
}

// TestReplacementDiscardsPrevious tests single-slot replacement semantics
func TestReplacementDiscardsPrevious(t *testing.T) {
	s := NewPlaybackStore()

	s.SetNowPlaying(session("a"))
	s.SetNowPlaying(session("b"))

	require.NotNil(t, s.NowPlaying())
	assert.Equal(t, "b", s.NowPlaying().ID)
}

// TestReplacementLeavesJobStoreUntouched tests the deliberate decoupling of
// playback from the job collection
func TestReplacementLeavesJobStoreUntouched(t *testing.T) {
	jobs := NewJobStore()
	jobs.Add(types.GenerationJob{ID: "g1", Status: types.JobStatusCompleted, Progress: 100})
	before := jobs.Jobs()

	s := NewPlaybackStore()
	s.SetNowPlaying(session("g1"))
	s.SetNowPlaying(session("g2"))
	s.SetNowPlaying(nil)

	assert.Equal(t, before, jobs.Jobs())
}

// TestClearSession tests that a nil session clears the slot and stops playback
func TestClearSession(t *testing.T) {
	s := NewPlaybackStore()
	s.SetNowPlaying(session("a"))

	s.SetNowPlaying(nil)

	assert.Nil(t, s.NowPlaying())
	assert.False(t, s.State().IsPlaying)
}

// TestTogglePlayPause tests the transport flag round trip
func TestTogglePlayPause(t *testing.T) {
	s := NewPlaybackStore()
	s.SetNowPlaying(session("a"))

	s.TogglePlayPause()
	assert.False(t, s.State().IsPlaying)

	s.TogglePlayPause()
	assert.True(t, s.State().IsPlaying)

	s.Pause()
	assert.False(t, s.State().IsPlaying)
	s.Play()
	assert.True(t, s.State().IsPlaying)
}

// TestStoreDoesNotClamp tests that range checks are left to the coordinator
func TestStoreDoesNotClamp(t *testing.T) {
	s := NewPlaybackStore()

	s.SetVolume(1.5)
	assert.Equal(t, 1.5, s.State().Volume)

	s.SetCurrentTime(-3)
	assert.Equal(t, -3.0, s.State().CurrentTime)
}

// TestSessionCopyIsolation tests that callers cannot mutate the stored session
func TestSessionCopyIsolation(t *testing.T) {
	s := NewPlaybackStore()
	orig := session("a")
	s.SetNowPlaying(orig)

	orig.Title = "mutated"
	got := s.NowPlaying()
	assert.Equal(t, "Track a", got.Title)

	got.Title = "also mutated"
	assert.Equal(t, "Track a", s.NowPlaying().Title)
}
