package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aria/config"
	"aria/player"
	"aria/store"
	"aria/transport"
	"aria/types"
)

// RunClient connects to the generation service, optionally submits a prompt,
// and watches jobs until they settle. With autoPlay set, completed tracks are
// handed to the shared playback session.
func RunClient(cfg *config.Config, prompt string, autoPlay bool) error {
	jobs := store.NewJobStore()
	playback := store.NewPlaybackStore()

	settings, err := config.LoadUserSettings()
	if err != nil {
		log.Printf("Could not load user settings, using defaults: %v", err)
		settings = &config.UserSettings{Volume: 1.0}
	}
	playback.SetVolume(settings.Volume)

	output := player.NewSimulatedOutput(time.Duration(cfg.Simulator.PlaybackSeconds) * time.Second)
	coordinator := player.NewCoordinator(playback, output)
	defer coordinator.Close()

	var onCompleted func(job types.GenerationJob)
	if autoPlay {
		onCompleted = func(job types.GenerationJob) {
			session := types.SessionFromJob(job)
			if artist, err := player.ProbeArtist(job.AudioURL); err == nil && artist != "" {
				session.Artist = artist
			}
			playback.SetNowPlaying(session)
			log.Printf("Now playing: %s", session.Title)
		}
	}

	view := NewWatchView(jobs, os.Stdout, onCompleted)
	defer view.Close()

	dispatcher := transport.NewDispatcher(cfg.EventURL(), jobs)
	if err := dispatcher.Connect(); err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.EventURL(), err)
	}
	defer dispatcher.Disconnect()

	if prompt != "" {
		api := transport.NewAPIClient(cfg.Server.URL)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		generationID, err := api.SubmitGeneration(ctx, prompt)
		if err != nil {
			return fmt.Errorf("submit generation: %w", err)
		}
		log.Printf("Generation %s queued", generationID)
	}

	waitUntilSettled(view, playback)

	// Persist the last volume for the next run
	settings.Volume = playback.State().Volume
	if err := config.SaveUserSettings(settings); err != nil {
		log.Printf("Could not save user settings: %v", err)
	}

	return nil
}

// waitUntilSettled blocks until every job reached a terminal state and
// playback finished, or the user interrupts
func waitUntilSettled(view *WatchView, playback store.PlaybackStore) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-interrupt:
			log.Printf("Interrupted, shutting down")
			return
		case <-ticker.C:
			if view.Settled() && !playback.State().IsPlaying {
				return
			}
		}
	}
}
