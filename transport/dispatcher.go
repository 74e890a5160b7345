// Package transport owns the client's connection to the generation service:
// the persistent push channel that feeds the job store and the HTTP call that
// starts a job. Each inbound event performs exactly one store mutation; the
// stores never see raw wire messages.
package transport

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"aria/store"
	"aria/types"
)

const (
	// reconnectAttempts bounds redialing after a dropped connection
	reconnectAttempts = 5

	// reconnectDelay is the fixed pause between redial attempts
	reconnectDelay = time.Second
)

// Dispatcher maintains the single persistent event channel and translates
// each named inbound event into its job store mutation. Late events for
// removed jobs fall through the store's unknown-id no-op.
type Dispatcher struct {
	url    string
	jobs   store.JobStore
	dialer *websocket.Dialer

	attempts int
	delay    time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	done   chan struct{}
}

// NewDispatcher creates a dispatcher for the given ws:// event endpoint,
// feeding the given job store
func NewDispatcher(url string, jobs store.JobStore) *Dispatcher {
	return &Dispatcher{
		url:      url,
		jobs:     jobs,
		dialer:   websocket.DefaultDialer,
		attempts: reconnectAttempts,
		delay:    reconnectDelay,
		done:     make(chan struct{}),
	}
}

// Connect dials the event channel and starts the read loop. It returns after
// the first successful dial; later drops are handled by bounded reconnection.
func (d *Dispatcher) Connect() error {
	conn, _, err := d.dialer.Dial(d.url, nil)
	if err != nil {
		return fmt.Errorf("connect event channel: %w", err)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		conn.Close()
		return fmt.Errorf("dispatcher already disconnected")
	}
	d.conn = conn
	d.mu.Unlock()

	log.Printf("event channel connected to %s", d.url)
	go d.readLoop(conn)
	return nil
}

// Disconnect closes the channel and stops any pending reconnection. Safe to
// call more than once; the second call is a no-op.
func (d *Dispatcher) Disconnect() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	conn := d.conn
	d.conn = nil
	close(d.done)
	d.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	log.Printf("event channel disconnected")
}

// readLoop consumes messages until the dispatcher is disconnected or the
// reconnect attempts run out
func (d *Dispatcher) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if d.isClosed() {
				return
			}
			log.Printf("event channel read error: %v", err)
			conn = d.reconnect()
			if conn == nil {
				return
			}
			continue
		}
		d.dispatch(data)
	}
}

// reconnect redials with a fixed delay between attempts. Returns nil once the
// attempts are exhausted or the dispatcher was disconnected; giving up
// is logged, not surfaced.
func (d *Dispatcher) reconnect() *websocket.Conn {
	for attempt := 1; attempt <= d.attempts; attempt++ {
		select {
		case <-d.done:
			return nil
		case <-time.After(d.delay):
		}

		conn, _, err := d.dialer.Dial(d.url, nil)
		if err != nil {
			log.Printf("event channel reconnect %d/%d failed: %v", attempt, d.attempts, err)
			continue
		}

		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			conn.Close()
			return nil
		}
		d.conn = conn
		d.mu.Unlock()

		log.Printf("event channel reconnected after %d attempt(s)", attempt)
		return conn
	}

	log.Printf("event channel gave up after %d reconnect attempts", d.attempts)
	return nil
}

// dispatch decodes one wire message and applies its single store mutation
func (d *Dispatcher) dispatch(data []byte) {
	ev, err := types.DecodeEvent(data)
	if err != nil {
		log.Printf("event channel: dropping message: %v", err)
		return
	}

	switch ev := ev.(type) {
	case *types.GenerationStarted:
		d.jobs.Add(types.GenerationJob{
			ID:        ev.GenerationID,
			Prompt:    ev.Prompt,
			Status:    types.JobStatusPending,
			Progress:  ev.Progress,
			CreatedAt: ev.CreatedAt,
		})

	case *types.GenerationProgress:
		d.jobs.Update(ev.GenerationID, types.JobPatch{
			Status:   &ev.Status,
			Progress: &ev.Progress,
		})

	case *types.GenerationComplete:
		status := types.JobStatusCompleted
		progress := 100
		d.jobs.Update(ev.GenerationID, types.JobPatch{
			Status:      &status,
			Progress:    &progress,
			Title:       &ev.Title,
			Description: &ev.Description,
			Image:       &ev.Image,
			AudioURL:    &ev.AudioURL,
		})

	case *types.GenerationFailed:
		status := types.JobStatusFailed
		d.jobs.Update(ev.GenerationID, types.JobPatch{
			Status: &status,
			Error:  &ev.Error,
		})
	}
}

func (d *Dispatcher) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
