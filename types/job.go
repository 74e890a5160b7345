package types

import "time"

// JobStatus represents the lifecycle state of a generation job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusGenerating JobStatus = "generating"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// InFlight reports whether the job is still being worked on by the server
func (s JobStatus) InFlight() bool {
	return s == JobStatusPending || s == JobStatusGenerating
}

// Terminal reports whether the status admits no further transitions
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// GenerationJob represents one generation request and its server-tracked
// lifecycle. The ID is assigned by the server and is the sole correlation key
// between the initiating HTTP request and all subsequent push events.
type GenerationJob struct {
	ID          string    `json:"id"`
	Prompt      string    `json:"prompt"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	AudioURL    string    `json:"audioUrl,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// JobPatch carries a partial update for a stored job. Nil fields are left
// untouched by the merge.
type JobPatch struct {
	Status      *JobStatus
	Progress    *int
	Title       *string
	Description *string
	Image       *string
	AudioURL    *string
	Error       *string
}
