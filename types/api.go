package types

// GenerateRequest is the body of POST /api/generate
type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// GenerateResponse acknowledges an accepted generation request. The id is the
// key every later push event for this job carries.
type GenerateResponse struct {
	GenerationID string `json:"generationId"`
}

// APIError is the JSON error body returned on non-2xx responses
type APIError struct {
	Error string `json:"error"`
}

// AudioTrack represents a discovered audio file in the simulator's library
type AudioTrack struct {
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	Size     int64          `json:"size"`
	Format   string         `json:"format"` // "flac", "mp3"
	Metadata *TrackMetadata `json:"metadata,omitempty"`
}

// TrackMetadata represents tag metadata for an audio file
type TrackMetadata struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}
