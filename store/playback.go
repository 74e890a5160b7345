package store

import (
	"sync"

	"aria/types"
)

// PlaybackStore holds the single shared now-playing session and the player
// transport flags. It never touches the job collection: playback outlives the
// originating job being removed from the list.
type PlaybackStore interface {
	SetNowPlaying(session *types.PlaybackSession)
	NowPlaying() *types.PlaybackSession
	Play()
	Pause()
	TogglePlayPause()
	SetCurrentTime(seconds float64)
	SetVolume(v float64)
	State() types.PlayerState
	Subscribe(fn func()) (unsubscribe func())
}

// playbackStore implements PlaybackStore
type playbackStore struct {
	mu      sync.RWMutex
	session *types.PlaybackSession
	state   types.PlayerState
	subs    map[int]func()
	nextSub int
}

// NewPlaybackStore creates a playback store with no active session and full volume
func NewPlaybackStore() PlaybackStore {
	return &playbackStore{
		state: types.PlayerState{Volume: 1},
		subs:  make(map[int]func()),
	}
}

// SetNowPlaying replaces the current session. A non-nil session starts
// playback from the beginning; nil clears the session and stops playback
// conceptually (the coordinator halts the actual audio).
func (s *playbackStore) SetNowPlaying(session *types.PlaybackSession) {
	s.mu.Lock()
	if session == nil {
		s.session = nil
		s.state.IsPlaying = false
	} else {
		cp := *session
		s.session = &cp
		s.state.IsPlaying = true
	}
	s.state.CurrentTime = 0
	s.mu.Unlock()

	s.notify()
}

// NowPlaying returns a copy of the active session, or nil
func (s *playbackStore) NowPlaying() *types.PlaybackSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Play sets the playing flag
func (s *playbackStore) Play() {
	s.mu.Lock()
	s.state.IsPlaying = true
	s.mu.Unlock()
	s.notify()
}

// Pause clears the playing flag
func (s *playbackStore) Pause() {
	s.mu.Lock()
	s.state.IsPlaying = false
	s.mu.Unlock()
	s.notify()
}

// TogglePlayPause flips the playing flag
func (s *playbackStore) TogglePlayPause() {
	s.mu.Lock()
	s.state.IsPlaying = !s.state.IsPlaying
	s.mu.Unlock()
	s.notify()
}

// SetCurrentTime writes the elapsed time. No clamping; the coordinator owns
// range checks.
func (s *playbackStore) SetCurrentTime(seconds float64) {
	s.mu.Lock()
	s.state.CurrentTime = seconds
	s.mu.Unlock()
	s.notify()
}

// SetVolume writes the volume. No clamping; the coordinator owns range checks.
func (s *playbackStore) SetVolume(v float64) {
	s.mu.Lock()
	s.state.Volume = v
	s.mu.Unlock()
	s.notify()
}

// State returns a snapshot of the player flags
func (s *playbackStore) State() types.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to run after every mutation. The returned function
// removes the subscription.
func (s *playbackStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify runs subscribers outside the store lock so they may read back
func (s *playbackStore) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
