package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/store"
	"aria/types"
)

// fakeOutput records coordinator side effects and lets tests steer position
// and the ended signal
type fakeOutput struct {
	mu       sync.Mutex
	loaded   []string
	plays    int
	pauses   int
	stops    int
	volume   float64
	position float64
	ended    chan struct{}
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{volume: 1, ended: make(chan struct{})}
}

func (f *fakeOutput) Load(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, url)
	f.position = 0
	f.ended = make(chan struct{})
	return nil
}

func (f *fakeOutput) Play()  { f.mu.Lock(); f.plays++; f.mu.Unlock() }
func (f *fakeOutput) Pause() { f.mu.Lock(); f.pauses++; f.mu.Unlock() }
func (f *fakeOutput) Stop()  { f.mu.Lock(); f.stops++; f.mu.Unlock() }

func (f *fakeOutput) SetVolume(v float64) { f.mu.Lock(); f.volume = v; f.mu.Unlock() }

func (f *fakeOutput) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position += 0.1
	return f.position
}

func (f *fakeOutput) Ended() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ended
}

func (f *fakeOutput) finish() {
	f.mu.Lock()
	close(f.ended)
	f.mu.Unlock()
}

func (f *fakeOutput) counts() (plays, pauses, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays, f.pauses, f.stops
}

func testSession(id string) *types.PlaybackSession {
	return &types.PlaybackSession{ID: id, Title: "t", AudioURL: "http://localhost/stream/" + id}
}

// TestPlaySessionLoadsAndSamples tests that a new session is loaded, played,
// and its position sampled back into the store
func TestPlaySessionLoadsAndSamples(t *testing.T) {
	ps := store.NewPlaybackStore()
	out := newFakeOutput()
	c := NewCoordinator(ps, out)
	defer c.Close()

	ps.SetNowPlaying(testSession("a"))

	require.Eventually(t, func() bool {
		return ps.State().CurrentTime > 0
	}, 2*time.Second, 10*time.Millisecond)

	out.mu.Lock()
	loaded := append([]string(nil), out.loaded...)
	out.mu.Unlock()
	require.Equal(t, []string{"http://localhost/stream/a"}, loaded)

	plays, _, _ := out.counts()
	assert.Equal(t, 1, plays)
}

// TestPauseStopsSampling tests that pausing halts both the output and the
// time sampler
func TestPauseStopsSampling(t *testing.T) {
	ps := store.NewPlaybackStore()
	out := newFakeOutput()
	c := NewCoordinator(ps, out)
	defer c.Close()

	ps.SetNowPlaying(testSession("a"))
	require.Eventually(t, func() bool {
		return ps.State().CurrentTime > 0
	}, 2*time.Second, 10*time.Millisecond)

	ps.Pause()
	c.drainSampler()

	_, pauses, _ := out.counts()
	assert.Equal(t, 1, pauses)

	settled := ps.State().CurrentTime
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, settled, ps.State().CurrentTime, "sampler still running after pause")
}

// TestEndedPausesAndRewinds tests the ended translation: pause + time zero
func TestEndedPausesAndRewinds(t *testing.T) {
	ps := store.NewPlaybackStore()
	out := newFakeOutput()
	c := NewCoordinator(ps, out)
	defer c.Close()

	ps.SetNowPlaying(testSession("a"))
	require.Eventually(t, func() bool {
		return ps.State().CurrentTime > 0
	}, 2*time.Second, 10*time.Millisecond)

	out.finish()

	require.Eventually(t, func() bool {
		state := ps.State()
		return !state.IsPlaying && state.CurrentTime == 0
	}, 2*time.Second, 10*time.Millisecond)

	// stays settled; no late sample may undo the rewind
	time.Sleep(250 * time.Millisecond)
	assert.Zero(t, ps.State().CurrentTime)
	assert.NotNil(t, ps.NowPlaying(), "ended must not clear the session")
}

// TestReplacementLoadsNewTrack tests that replacing the session reloads the output
func TestReplacementLoadsNewTrack(t *testing.T) {
	ps := store.NewPlaybackStore()
	out := newFakeOutput()
	c := NewCoordinator(ps, out)
	defer c.Close()

	ps.SetNowPlaying(testSession("a"))
	ps.SetNowPlaying(testSession("b"))

	out.mu.Lock()
	loaded := append([]string(nil), out.loaded...)
	out.mu.Unlock()
	assert.Equal(t, []string{"http://localhost/stream/a", "http://localhost/stream/b"}, loaded)
}

// TestClearStopsOutput tests that clearing the session stops the device
func TestClearStopsOutput(t *testing.T) {
	ps := store.NewPlaybackStore()
	out := newFakeOutput()
	c := NewCoordinator(ps, out)
	defer c.Close()

	ps.SetNowPlaying(testSession("a"))
	ps.SetNowPlaying(nil)

	_, _, stops := out.counts()
	assert.Equal(t, 1, stops)
}

// TestVolumeClampedAtOutput tests that the store's raw volume is bounded
// before reaching the device
func TestVolumeClampedAtOutput(t *testing.T) {
	ps := store.NewPlaybackStore()
	out := newFakeOutput()
	c := NewCoordinator(ps, out)
	defer c.Close()

	ps.SetVolume(1.5)
	out.mu.Lock()
	v := out.volume
	out.mu.Unlock()
	assert.Equal(t, 1.0, v)

	ps.SetVolume(-0.2)
	out.mu.Lock()
	v = out.volume
	out.mu.Unlock()
	assert.Equal(t, 0.0, v)
}

// TestSimulatedOutputReplayAfterEnded tests that playing a finished track
// again restarts it from the top instead of crashing on the spent ended signal
func TestSimulatedOutputReplayAfterEnded(t *testing.T) {
	out := NewSimulatedOutput(100 * time.Millisecond)
	require.NoError(t, out.Load("http://localhost/stream/x"))

	out.Play()
	select {
	case <-out.Ended():
	case <-time.After(time.Second):
		t.Fatal("track never ended")
	}

	assert.NotPanics(t, func() { out.Play() })
	assert.Less(t, out.Position(), 0.1, "replay restarts from the top")

	select {
	case <-out.Ended():
	case <-time.After(time.Second):
		t.Fatal("replayed track never ended")
	}
}

// TestReplayAfterEnded tests the full cycle: a track ends, the store is
// paused and rewound, the user hits play again, and the second playthrough
// ends cleanly too
func TestReplayAfterEnded(t *testing.T) {
	ps := store.NewPlaybackStore()
	out := NewSimulatedOutput(250 * time.Millisecond)
	c := NewCoordinator(ps, out)
	defer c.Close()

	ps.SetNowPlaying(testSession("a"))
	require.Eventually(t, func() bool {
		state := ps.State()
		return !state.IsPlaying && state.CurrentTime == 0
	}, 2*time.Second, 10*time.Millisecond)

	ps.Play()
	require.Eventually(t, func() bool {
		return ps.State().CurrentTime > 0
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		state := ps.State()
		return !state.IsPlaying && state.CurrentTime == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotNil(t, ps.NowPlaying())
}

// TestSimulatedOutputLifecycle tests the clock-driven stand-in device
func TestSimulatedOutputLifecycle(t *testing.T) {
	out := NewSimulatedOutput(80 * time.Millisecond)
	require.NoError(t, out.Load("http://localhost/stream/x"))

	out.Play()
	time.Sleep(30 * time.Millisecond)
	assert.Greater(t, out.Position(), 0.0)

	out.Pause()
	frozen := out.Position()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, out.Position())

	out.Play()
	select {
	case <-out.Ended():
	case <-time.After(time.Second):
		t.Fatal("track never ended")
	}
	assert.InDelta(t, 0.08, out.Position(), 0.001)

	// a new load resets position and arms a fresh ended signal
	require.NoError(t, out.Load("http://localhost/stream/y"))
	assert.Zero(t, out.Position())
	select {
	case <-out.Ended():
		t.Fatal("fresh track already ended")
	default:
	}
}
