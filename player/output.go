// Package player binds the playback store to an audio rendering collaborator.
// The coordinator performs the load/play/pause/volume side effects and
// reports time back into the store; the Output interface is the boundary to
// the actual audio machinery.
package player

import (
	"sync"
	"time"
)

// Output is the audio rendering collaborator driven by the Coordinator.
// Position reports elapsed seconds for the loaded track; Ended yields a
// channel closed once the current track plays to completion.
type Output interface {
	Load(url string) error
	Play()
	Pause()
	Stop()
	SetVolume(v float64)
	Position() float64
	Ended() <-chan struct{}
}

// SimulatedOutput advances the playback position against the wall clock. It
// stands in for a real audio device so the client runs headless; every track
// plays for the configured duration.
type SimulatedOutput struct {
	duration time.Duration

	mu        sync.Mutex
	playing   bool
	base      time.Duration // accumulated position while paused
	startedAt time.Time
	ended     chan struct{}
	endTimer  *time.Timer
	volume    float64
}

// NewSimulatedOutput creates an output whose tracks last the given duration
func NewSimulatedOutput(duration time.Duration) *SimulatedOutput {
	return &SimulatedOutput{
		duration: duration,
		ended:    make(chan struct{}),
		volume:   1,
	}
}

// Load resets position for a new track
func (o *SimulatedOutput) Load(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopTimerLocked()
	o.playing = false
	o.base = 0
	o.ended = make(chan struct{})
	return nil
}

// Play starts the clock
func (o *SimulatedOutput) Play() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.playing {
		return
	}
	// a track that already played out restarts from the top, with a fresh
	// ended signal; the old one has fired and must not be closed again
	if o.base >= o.duration {
		o.base = 0
		o.ended = make(chan struct{})
	}
	o.playing = true
	o.startedAt = time.Now()

	ended := o.ended
	o.endTimer = time.AfterFunc(o.duration-o.base, func() {
		o.mu.Lock()
		if o.ended == ended {
			o.playing = false
			o.base = o.duration
			close(ended)
		}
		o.mu.Unlock()
	})
}

// Pause freezes the clock
func (o *SimulatedOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.playing {
		return
	}
	o.base += time.Since(o.startedAt)
	if o.base > o.duration {
		o.base = o.duration
	}
	o.playing = false
	o.stopTimerLocked()
}

// Stop halts playback and rewinds
func (o *SimulatedOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopTimerLocked()
	o.playing = false
	o.base = 0
}

// SetVolume records the volume; a simulated device has nothing to attenuate
func (o *SimulatedOutput) SetVolume(v float64) {
	o.mu.Lock()
	o.volume = v
	o.mu.Unlock()
}

// Position reports elapsed seconds for the loaded track
func (o *SimulatedOutput) Position() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	pos := o.base
	if o.playing {
		pos += time.Since(o.startedAt)
	}
	if pos > o.duration {
		pos = o.duration
	}
	return pos.Seconds()
}

// Ended returns the completion signal for the current track
func (o *SimulatedOutput) Ended() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ended
}

func (o *SimulatedOutput) stopTimerLocked() {
	if o.endTimer != nil {
		o.endTimer.Stop()
		o.endTimer = nil
	}
}
