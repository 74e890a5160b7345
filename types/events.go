package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies an inbound push event on the wire
type EventType string

const (
	EventGenerationStarted  EventType = "GENERATION_STARTED"
	EventGenerationProgress EventType = "GENERATION_PROGRESS"
	EventGenerationComplete EventType = "GENERATION_COMPLETE"
	EventGenerationFailed   EventType = "GENERATION_FAILED"
)

// Event is the closed set of push events the server can deliver. Payloads are
// decoded exactly once at the transport boundary; everything past it works
// with typed values instead of raw message maps.
type Event interface {
	Kind() EventType
}

// GenerationStarted announces that the server accepted a request and created
// a job. This is the only path that creates a local job record.
type GenerationStarted struct {
	GenerationID string    `json:"generationId"`
	Prompt       string    `json:"prompt"`
	Progress     int       `json:"progress"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (GenerationStarted) Kind() EventType { return EventGenerationStarted }

// GenerationProgress carries an authoritative progress update for an existing job
type GenerationProgress struct {
	GenerationID string    `json:"generationId"`
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
}

func (GenerationProgress) Kind() EventType { return EventGenerationProgress }

// GenerationComplete marks a job completed and attaches the result metadata
type GenerationComplete struct {
	GenerationID string `json:"generationId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	AudioURL     string `json:"audioUrl"`
}

func (GenerationComplete) Kind() EventType { return EventGenerationComplete }

// GenerationFailed marks a job failed with a human-readable reason
type GenerationFailed struct {
	GenerationID string `json:"generationId"`
	Error        string `json:"error"`
}

func (GenerationFailed) Kind() EventType { return EventGenerationFailed }

// envelope is the wire framing around every push event
type envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeEvent parses a wire message into its typed event. Unknown event types
// are an error so the caller can log and drop them.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	var ev Event
	switch env.Type {
	case EventGenerationStarted:
		ev = &GenerationStarted{}
	case EventGenerationProgress:
		ev = &GenerationProgress{}
	case EventGenerationComplete:
		ev = &GenerationComplete{}
	case EventGenerationFailed:
		ev = &GenerationFailed{}
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}

	if err := json.Unmarshal(env.Payload, ev); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return ev, nil
}

// EncodeEvent wraps a typed event in its wire envelope
func EncodeEvent(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", ev.Kind(), err)
	}
	return json.Marshal(envelope{Type: ev.Kind(), Payload: payload})
}
