package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"aria/services"
	"aria/types"
)

// FileHandler handles audio library endpoints
type FileHandler struct {
	fileService services.FileService
	libraryRoot string
}

// NewFileHandler creates a new file handler
func NewFileHandler(fs services.FileService, libraryRoot string) *FileHandler {
	return &FileHandler{
		fileService: fs,
		libraryRoot: libraryRoot,
	}
}

// ListFiles returns a list of all discovered audio files
func (h *FileHandler) ListFiles(c *gin.Context) {
	audioFiles, err := h.fileService.ScanAudioFiles(h.libraryRoot)
	if err != nil {
		log.Printf("Error scanning audio files: %v", err)
		c.JSON(http.StatusInternalServerError, types.APIError{
			Error: "failed to scan files",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": audioFiles,
		"count": len(audioFiles),
	})
}

// StreamFile streams an audio file from the library
func (h *FileHandler) StreamFile(c *gin.Context) {
	requestedPath := strings.TrimPrefix(c.Param("filepath"), "/")

	if err := h.fileService.ValidateFilePath(requestedPath); err != nil {
		log.Printf("Rejected file request %q: %v", requestedPath, err)
		c.JSON(http.StatusBadRequest, types.APIError{
			Error: "invalid file path",
		})
		return
	}

	fullPath := h.fileService.ResolvePath(requestedPath)
	if _, err := os.Stat(fullPath); err != nil {
		c.JSON(http.StatusNotFound, types.APIError{
			Error: "file not found",
		})
		return
	}

	// gin handles range requests for seeking
	c.File(fullPath)
}
