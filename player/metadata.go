package player

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhowden/tag"
)

// probeLimit caps how much of a track is fetched for tag parsing
const probeLimit = 16 << 20 // 16 MiB

var probeClient = &http.Client{Timeout: 15 * time.Second}

// ProbeArtist fetches a track and reads its embedded tag metadata to recover
// the artist name. Generated tracks often carry no artist in the completion
// event; the audio file itself is the only other source.
func ProbeArtist(audioURL string) (string, error) {
	resp, err := probeClient.Get(audioURL)
	if err != nil {
		return "", fmt.Errorf("fetch track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch track: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, probeLimit))
	if err != nil {
		return "", fmt.Errorf("read track: %w", err)
	}

	meta, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse track metadata: %w", err)
	}
	return meta.Artist(), nil
}
