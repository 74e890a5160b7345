package services

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"aria/types"
)

// FileService interface defines methods for the simulator's audio library
type FileService interface {
	ScanAudioFiles(rootPath string) ([]types.AudioTrack, error)
	ExtractMetadata(filePath string) *types.TrackMetadata
	RandomTrack() *types.AudioTrack
	ValidateFilePath(path string) error
	ResolvePath(relPath string) string
}

// fileService implements the FileService interface over a library directory
type fileService struct {
	root string
}

// NewFileService creates a file service for the given library root. A
// missing directory just yields an empty library.
func NewFileService(root string) FileService {
	return &fileService{root: root}
}

// ScanAudioFiles recursively scans the library for audio files (FLAC and MP3)
func (fs *fileService) ScanAudioFiles(rootPath string) ([]types.AudioTrack, error) {
	var tracks []types.AudioTrack

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("library: error accessing %s: %v", path, err)
			return nil // continue walking, don't fail the entire scan
		}

		ext := strings.ToLower(filepath.Ext(path))
		if info.IsDir() || (ext != ".flac" && ext != ".mp3") {
			return nil
		}

		relativePath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relativePath = path
		}

		format := "flac"
		if ext == ".mp3" {
			format = "mp3"
		}

		tracks = append(tracks, types.AudioTrack{
			Filename: filepath.Base(path),
			Path:     filepath.ToSlash(relativePath),
			Size:     info.Size(),
			Format:   format,
			Metadata: fs.ExtractMetadata(path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan library %s: %w", rootPath, err)
	}

	return tracks, nil
}

// ExtractMetadata reads tag metadata from an audio file. Files without
// parseable tags fall back to filename-derived metadata.
func (fs *fileService) ExtractMetadata(filePath string) *types.TrackMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		log.Printf("library: could not open %s: %v", filePath, err)
		return metadataFromPath(filePath)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		log.Printf("library: could not parse tags in %s: %v", filePath, err)
		return metadataFromPath(filePath)
	}

	metadata := &types.TrackMetadata{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
	}

	// Use filename fallback for missing fields
	if metadata.Title == "" || metadata.Artist == "" || metadata.Album == "" {
		fallback := metadataFromPath(filePath)
		if metadata.Title == "" {
			metadata.Title = fallback.Title
		}
		if metadata.Artist == "" {
			metadata.Artist = fallback.Artist
		}
		if metadata.Album == "" {
			metadata.Album = fallback.Album
		}
	}

	return metadata
}

// RandomTrack picks one library track, or nil when the library is empty
func (fs *fileService) RandomTrack() *types.AudioTrack {
	tracks, err := fs.ScanAudioFiles(fs.root)
	if err != nil || len(tracks) == 0 {
		return nil
	}
	track := tracks[rand.Intn(len(tracks))]
	return &track
}

// ValidateFilePath rejects paths that would escape the library root
func (fs *fileService) ValidateFilePath(path string) error {
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute paths not allowed")
	}
	return nil
}

// ResolvePath joins a validated relative path onto the library root
func (fs *fileService) ResolvePath(relPath string) string {
	return filepath.Join(fs.root, filepath.FromSlash(relPath))
}

// metadataFromPath derives metadata from the Artist/Album/Track layout of
// the library directory
func metadataFromPath(filePath string) *types.TrackMetadata {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	// strip a leading "NN - " track number prefix
	if idx := strings.Index(base, " - "); idx > 0 && idx <= 3 {
		base = base[idx+3:]
	}

	metadata := &types.TrackMetadata{Title: base}

	albumDir := filepath.Dir(filePath)
	artistDir := filepath.Dir(albumDir)
	if album := filepath.Base(albumDir); album != "." && album != string(filepath.Separator) {
		metadata.Album = album
	}
	if artist := filepath.Base(artistDir); artist != "." && artist != string(filepath.Separator) {
		metadata.Artist = artist
	}

	return metadata
}
