package types

// PlaybackSession references the single globally shared active track. At most
// one session exists at a time; replacing it has no effect on the job
// collection, so playback survives the originating job being removed.
type PlaybackSession struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	AudioURL string `json:"audioUrl"`
	Image    string `json:"image,omitempty"`
	Artist   string `json:"artist,omitempty"`
}

// PlayerState holds the transport flags for the shared player
type PlayerState struct {
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"` // seconds
	Volume      float64 `json:"volume"`      // 0.0 - 1.0
}

// SessionFromJob builds a playback session for a completed job, falling back
// to the prompt when the server supplied no title.
func SessionFromJob(job GenerationJob) *PlaybackSession {
	title := job.Title
	if title == "" {
		title = job.Prompt
	}
	return &PlaybackSession{
		ID:       job.ID,
		Title:    title,
		AudioURL: job.AudioURL,
		Image:    job.Image,
	}
}
