package services

import (
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"aria/types"
	"aria/websocket"
)

// Pipeline interface defines the simulated backend generation pipeline: it
// steps submitted jobs through pending, generating and a terminal state,
// publishing every transition to the hub.
type Pipeline interface {
	Start()
	Submit(prompt string) *types.GenerationJob
	Get(id string) (*types.GenerationJob, bool)
	All() []*types.GenerationJob
}

// PipelineOptions tunes the simulated pipeline
type PipelineOptions struct {
	Workers     int
	Duration    time.Duration // approximate wall time per generation
	FailureRate float64       // 0..1 share of jobs that fail
	PublicURL   string        // externally visible base URL for result links
}

// pipeline manages simulated generation jobs
type pipeline struct {
	jobs    map[string]*types.GenerationJob
	queue   chan *types.GenerationJob
	mu      sync.RWMutex
	opts    PipelineOptions
	hub     websocket.Hub
	library FileService
}

// NewPipeline creates a new simulated pipeline publishing to the given hub.
// The library, when non-empty, supplies result metadata for completed jobs.
func NewPipeline(opts PipelineOptions, hub websocket.Hub, library FileService) Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Duration <= 0 {
		opts.Duration = 8 * time.Second
	}
	return &pipeline{
		jobs:    make(map[string]*types.GenerationJob),
		queue:   make(chan *types.GenerationJob, 100),
		opts:    opts,
		hub:     hub,
		library: library,
	}
}

// Start begins processing submitted jobs
func (p *pipeline) Start() {
	for i := 0; i < p.opts.Workers; i++ {
		go p.worker()
	}
}

// Submit accepts a prompt, assigns an id and announces the new job. The
// GENERATION_STARTED event is what creates the record on the client side.
func (p *pipeline) Submit(prompt string) *types.GenerationJob {
	job := &types.GenerationJob{
		ID:        uuid.New().String(),
		Prompt:    prompt,
		Status:    types.JobStatusPending,
		Progress:  0,
		CreatedAt: time.Now(),
	}

	p.mu.Lock()
	p.jobs[job.ID] = job
	p.mu.Unlock()

	p.hub.Broadcast(&types.GenerationStarted{
		GenerationID: job.ID,
		Prompt:       job.Prompt,
		Progress:     0,
		CreatedAt:    job.CreatedAt,
	})

	p.queue <- job
	return job
}

// Get retrieves a job by id
func (p *pipeline) Get(id string) (*types.GenerationJob, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	job, exists := p.jobs[id]
	return job, exists
}

// All returns every job the simulator has seen
func (p *pipeline) All() []*types.GenerationJob {
	p.mu.RLock()
	defer p.mu.RUnlock()

	jobs := make([]*types.GenerationJob, 0, len(p.jobs))
	for _, job := range p.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// worker runs one job at a time to its terminal state
func (p *pipeline) worker() {
	for job := range p.queue {
		p.run(job)
	}
}

// run steps a job's progress in irregular coarse increments, the way a real
// pipeline reports: a handful of updates, not a smooth ramp
func (p *pipeline) run(job *types.GenerationJob) {
	failAt := -1
	if rand.Float64() < p.opts.FailureRate {
		failAt = 10 + rand.Intn(75)
	}

	progress := 0
	for progress < 100 {
		time.Sleep(p.stepPause())

		progress += 5 + rand.Intn(20)
		if progress > 100 {
			progress = 100
		}

		if failAt >= 0 && progress >= failAt {
			p.fail(job, "synthesis failed")
			return
		}
		if progress >= 100 {
			break
		}

		p.setProgress(job, progress)
	}

	p.complete(job)
}

func (p *pipeline) stepPause() time.Duration {
	// ~7 steps per job on average
	base := p.opts.Duration / 7
	return base/2 + time.Duration(rand.Int63n(int64(base)))
}

func (p *pipeline) setProgress(job *types.GenerationJob, progress int) {
	p.mu.Lock()
	job.Status = types.JobStatusGenerating
	job.Progress = progress
	p.mu.Unlock()

	p.hub.Broadcast(&types.GenerationProgress{
		GenerationID: job.ID,
		Status:       types.JobStatusGenerating,
		Progress:     progress,
	})
}

func (p *pipeline) complete(job *types.GenerationJob) {
	title, artist, audioURL := p.result(job)

	description := job.Prompt
	image := p.opts.PublicURL + "/api/covers/" + url.PathEscape(job.ID) + ".jpg"
	if artist != "" {
		description = fmt.Sprintf("%s (in the style of %s)", job.Prompt, artist)
	}

	p.mu.Lock()
	job.Status = types.JobStatusCompleted
	job.Progress = 100
	job.Title = title
	job.Description = description
	job.Image = image
	job.AudioURL = audioURL
	p.mu.Unlock()

	p.hub.Broadcast(&types.GenerationComplete{
		GenerationID: job.ID,
		Title:        title,
		Description:  description,
		Image:        image,
		AudioURL:     audioURL,
	})
	log.Printf("simulated generation %s completed: %s", job.ID, title)
}

func (p *pipeline) fail(job *types.GenerationJob, reason string) {
	p.mu.Lock()
	job.Status = types.JobStatusFailed
	job.Error = reason
	p.mu.Unlock()

	p.hub.Broadcast(&types.GenerationFailed{
		GenerationID: job.ID,
		Error:        reason,
	})
	log.Printf("simulated generation %s failed: %s", job.ID, reason)
}

// result picks a library track for the finished job when one is available,
// otherwise synthesizes metadata from the prompt
func (p *pipeline) result(job *types.GenerationJob) (title, artist, audioURL string) {
	title = titleFromPrompt(job.Prompt)

	if p.library != nil {
		if track := p.library.RandomTrack(); track != nil {
			if track.Metadata != nil {
				if track.Metadata.Title != "" {
					title = track.Metadata.Title
				}
				artist = track.Metadata.Artist
			}
			return title, artist, p.opts.PublicURL + "/api/files/stream/" + pathEscapeAll(track.Path)
		}
	}

	return title, "", p.opts.PublicURL + "/api/tracks/" + url.PathEscape(job.ID) + ".mp3"
}

// titleFromPrompt derives a short display title from the user's prompt
func titleFromPrompt(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) > 5 {
		words = words[:5]
	}
	if len(words) == 0 {
		return "Untitled"
	}
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// pathEscapeAll escapes each segment of a relative path for use in a URL
func pathEscapeAll(relPath string) string {
	segments := strings.Split(relPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
