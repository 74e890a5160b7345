package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLibraryFile(t *testing.T, root string, relPath string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	// not a parseable audio stream, which exercises the filename fallback
	require.NoError(t, os.WriteFile(full, []byte("ID3 placeholder"), 0o644))
}

// TestScanAudioFiles tests recursive discovery of FLAC and MP3 files
func TestScanAudioFiles(t *testing.T) {
	root := t.TempDir()
	writeLibraryFile(t, root, "Aphex Twin/Selected Ambient Works/01 - Xtal.mp3")
	writeLibraryFile(t, root, "Aphex Twin/Selected Ambient Works/02 - Tha.flac")
	writeLibraryFile(t, root, "Aphex Twin/Selected Ambient Works/cover.jpg")
	writeLibraryFile(t, root, "notes.txt")

	fs := NewFileService(root)
	tracks, err := fs.ScanAudioFiles(root)
	require.NoError(t, err)
	require.Len(t, tracks, 2, "non-audio files must be skipped")

	formats := map[string]string{}
	for _, track := range tracks {
		formats[track.Filename] = track.Format
		assert.NotContains(t, track.Path, "\\", "paths are normalized to forward slashes")
	}
	assert.Equal(t, "mp3", formats["01 - Xtal.mp3"])
	assert.Equal(t, "flac", formats["02 - Tha.flac"])
}

// TestExtractMetadataFallback tests filename-derived metadata for untagged files
func TestExtractMetadataFallback(t *testing.T) {
	root := t.TempDir()
	writeLibraryFile(t, root, "Boards of Canada/Music Has the Right/05 - Roygbiv.mp3")

	fs := NewFileService(root)
	meta := fs.ExtractMetadata(filepath.Join(root, "Boards of Canada", "Music Has the Right", "05 - Roygbiv.mp3"))
	require.NotNil(t, meta)
	assert.Equal(t, "Roygbiv", meta.Title, "track number prefix is stripped")
	assert.Equal(t, "Music Has the Right", meta.Album)
	assert.Equal(t, "Boards of Canada", meta.Artist)
}

// TestRandomTrack tests track selection and the empty-library case
func TestRandomTrack(t *testing.T) {
	empty := NewFileService(t.TempDir())
	assert.Nil(t, empty.RandomTrack())

	root := t.TempDir()
	writeLibraryFile(t, root, "artist/album/only.mp3")
	fs := NewFileService(root)
	track := fs.RandomTrack()
	require.NotNil(t, track)
	assert.Equal(t, "only.mp3", track.Filename)
}

// TestRandomTrackMissingRoot tests that a nonexistent library directory is
// treated as empty rather than an error
func TestRandomTrackMissingRoot(t *testing.T) {
	fs := NewFileService(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Nil(t, fs.RandomTrack())
}

// TestValidateFilePath tests rejection of paths escaping the library root
func TestValidateFilePath(t *testing.T) {
	fs := NewFileService(t.TempDir())

	assert.NoError(t, fs.ValidateFilePath("artist/album/track.mp3"))
	assert.Error(t, fs.ValidateFilePath("../../../etc/passwd"))
	assert.Error(t, fs.ValidateFilePath("artist/../../escape.mp3"))
	assert.Error(t, fs.ValidateFilePath("/etc/passwd"))
}

// TestMetadataFromPath tests path-based metadata derivation
func TestMetadataFromPath(t *testing.T) {
	tests := []struct {
		name           string
		filePath       string
		expectedTitle  string
		expectedArtist string
		expectedAlbum  string
	}{
		{
			name:           "standard structure with track number",
			filePath:       "Artist Name/Album Name/01 - Song Title.flac",
			expectedTitle:  "Song Title",
			expectedArtist: "Artist Name",
			expectedAlbum:  "Album Name",
		},
		{
			name:           "double digit track number",
			filePath:       "The Beatles/Abbey Road/12 - Come Together.flac",
			expectedTitle:  "Come Together",
			expectedArtist: "The Beatles",
			expectedAlbum:  "Abbey Road",
		},
		{
			name:           "no track number",
			filePath:       "Artist/Album/Song Title.mp3",
			expectedTitle:  "Song Title",
			expectedArtist: "Artist",
			expectedAlbum:  "Album",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := metadataFromPath(filepath.FromSlash(tt.filePath))

			assert.Equal(t, tt.expectedTitle, metadata.Title)
			assert.Equal(t, tt.expectedArtist, metadata.Artist)
			assert.Equal(t, tt.expectedAlbum, metadata.Album)
		})
	}
}

// TestResolvePath tests joining relative paths onto the library root
func TestResolvePath(t *testing.T) {
	fs := NewFileService("/music")
	assert.Equal(t, filepath.Join("/music", "a", "b.mp3"), fs.ResolvePath("a/b.mp3"))
}
