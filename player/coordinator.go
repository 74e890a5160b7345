package player

import (
	"log"
	"sync"
	"time"

	"aria/sched"
	"aria/store"
)

// sampleInterval is the fixed cadence at which the output position is
// reported back into the store while playing
const sampleInterval = 100 * time.Millisecond

// Coordinator observes the playback store and drives an Output: it loads the
// session's track, propagates play/pause and clamped volume, samples elapsed
// time while playing, and translates the output's ended signal into
// pause + rewind.
type Coordinator struct {
	store  store.PlaybackStore
	output Output

	mu          sync.Mutex
	sessionID   string
	playing     bool
	volume      float64
	sampler     *sched.Task
	lastSampler *sched.Task
	watching    <-chan struct{}

	closed      chan struct{}
	closeOnce   sync.Once
	unsubscribe func()
}

// NewCoordinator wires the coordinator to the store and applies the current
// state immediately
func NewCoordinator(ps store.PlaybackStore, out Output) *Coordinator {
	c := &Coordinator{
		store:  ps,
		output: out,
		volume: -1, // force the first volume write through
		closed: make(chan struct{}),
	}
	c.unsubscribe = ps.Subscribe(c.reconcile)
	c.reconcile()
	return c
}

// Close detaches from the store and stops the output. Safe to call more than once.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.unsubscribe()

		c.mu.Lock()
		sampler := c.sampler
		c.sampler = nil
		c.sessionID = ""
		c.playing = false
		c.mu.Unlock()

		if sampler != nil {
			sampler.Stop()
			<-sampler.Done()
		}
		c.output.Stop()
	})
}

// reconcile diffs the store state against what was last applied to the
// output. It runs on every store mutation, including its own time samples,
// so every branch must be idempotent.
func (c *Coordinator) reconcile() {
	select {
	case <-c.closed:
		return
	default:
	}

	session := c.store.NowPlaying()
	state := c.store.State()

	c.mu.Lock()
	defer c.mu.Unlock()

	if v := clampVolume(state.Volume); v != c.volume {
		c.volume = v
		c.output.SetVolume(v)
	}

	if session == nil {
		if c.sessionID != "" {
			c.sessionID = ""
			c.playing = false
			c.stopSamplerLocked()
			c.output.Stop()
		}
		return
	}

	if session.ID != c.sessionID {
		c.sessionID = session.ID
		c.playing = false
		c.stopSamplerLocked()
		if err := c.output.Load(session.AudioURL); err != nil {
			log.Printf("player: load %s: %v", session.AudioURL, err)
			return
		}
		c.watchEndedLocked(session.ID)
	}

	switch {
	case state.IsPlaying && !c.playing:
		c.playing = true
		c.output.Play()
		// replaying a finished track arms a fresh ended signal
		c.watchEndedLocked(c.sessionID)
		c.startSamplerLocked()
	case !state.IsPlaying && c.playing:
		c.playing = false
		c.output.Pause()
		c.stopSamplerLocked()
	}
}

// startSamplerLocked begins the 100ms position poll
func (c *Coordinator) startSamplerLocked() {
	if c.sampler != nil {
		return
	}
	var task *sched.Task
	task = sched.Start(sampleInterval, func(time.Time) bool {
		c.mu.Lock()
		stale := c.sampler != task
		c.mu.Unlock()
		if stale {
			return false
		}
		c.store.SetCurrentTime(c.output.Position())
		return true
	})
	c.sampler = task
}

// stopSamplerLocked cancels the position poll. Cancellation is non-blocking
// (waiting under c.mu would deadlock against a frame's stale check); the
// handle is kept so drainSampler can wait for the in-flight frame.
func (c *Coordinator) stopSamplerLocked() {
	if c.sampler == nil {
		return
	}
	c.sampler.Stop()
	c.lastSampler = c.sampler
	c.sampler = nil
}

// drainSampler blocks until the most recently stopped sampler has fully
// exited and can write no further time samples. Must not be called under c.mu.
func (c *Coordinator) drainSampler() {
	c.mu.Lock()
	last := c.lastSampler
	c.mu.Unlock()

	if last != nil {
		<-last.Done()
	}
}

// watchEndedLocked translates the output's ended signal for this session
// into pause + rewind, unless the session was replaced meanwhile. A channel
// already being watched is not watched twice.
func (c *Coordinator) watchEndedLocked(sessionID string) {
	ended := c.output.Ended()
	if ended == c.watching {
		return
	}
	c.watching = ended
	go func() {
		select {
		case <-ended:
		case <-c.closed:
			return
		}

		current := c.store.NowPlaying()
		if current == nil || current.ID != sessionID {
			return
		}
		c.store.Pause()
		// the pause above stopped the sampler; wait it out so a stale
		// sample cannot land after the rewind
		c.drainSampler()
		c.store.SetCurrentTime(0)
	}()
}

// clampVolume bounds the store's unclamped volume into [0,1] before it
// reaches the output
func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
