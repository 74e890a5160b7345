// Package store holds the client's in-memory state containers: the
// insertion-ordered generation job collection and the single-slot playback
// session. Both are injectable, mutation-only containers with observer
// notification; neither performs any I/O.
package store

import (
	"log"
	"sync"

	"aria/types"
)

// JobStore is the insertion-ordered collection of generation jobs. New jobs
// prepend (most-recent-first); mutations addressed to an unknown id are
// logged no-ops, never errors.
type JobStore interface {
	Add(job types.GenerationJob)
	Update(id string, patch types.JobPatch)
	Remove(id string)
	Get(id string) (types.GenerationJob, bool)
	Jobs() []types.GenerationJob
	IsEmpty() bool
	Subscribe(fn func()) (unsubscribe func())
}

// jobStore implements JobStore
type jobStore struct {
	mu      sync.RWMutex
	jobs    []types.GenerationJob // most-recent-first
	subs    map[int]func()
	nextSub int
}

// NewJobStore creates an empty job store
func NewJobStore() JobStore {
	return &jobStore{
		subs: make(map[int]func()),
	}
}

// Add inserts a job at the head of the collection. A job with an id already
// present overwrites the existing record in place, keeping its position.
func (s *jobStore) Add(job types.GenerationJob) {
	s.mu.Lock()
	if idx := s.indexOf(job.ID); idx >= 0 {
		s.jobs[idx] = job
	} else {
		s.jobs = append([]types.GenerationJob{job}, s.jobs...)
	}
	s.mu.Unlock()

	s.notify()
}

// Update shallow-merges the patch into the matching record
func (s *jobStore) Update(id string, patch types.JobPatch) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("job store: update for unknown job %s dropped", id)
		return
	}
	mergePatch(&s.jobs[idx], patch)
	s.mu.Unlock()

	s.notify()
}

// Remove deletes the matching record
func (s *jobStore) Remove(id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("job store: remove for unknown job %s dropped", id)
		return
	}
	s.jobs = append(s.jobs[:idx], s.jobs[idx+1:]...)
	s.mu.Unlock()

	s.notify()
}

// Get retrieves a job by id
func (s *jobStore) Get(id string) (types.GenerationJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.jobs[idx], true
	}
	return types.GenerationJob{}, false
}

// Jobs returns a most-recent-first snapshot of the collection
func (s *jobStore) Jobs() []types.GenerationJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.GenerationJob, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// IsEmpty reports whether the collection holds no jobs
func (s *jobStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs) == 0
}

// Subscribe registers fn to run after every mutation. The returned function
// removes the subscription.
func (s *jobStore) Subscribe(fn func()) func() {
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

// indexOf returns the position of id, or -1. Callers hold s.mu.
func (s *jobStore) indexOf(id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

// notify runs subscribers outside the store lock so they may read back
func (s *jobStore) notify() {
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

// mergePatch applies the non-nil patch fields to the record
func mergePatch(job *types.GenerationJob, p types.JobPatch) {
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.Progress != nil {
		job.Progress = *p.Progress
	}
	if p.Title != nil {
		job.Title = *p.Title
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.Image != nil {
		job.Image = *p.Image
	}
	if p.AudioURL != nil {
		job.AudioURL = *p.AudioURL
	}
	if p.Error != nil {
		job.Error = *p.Error
	}
}
