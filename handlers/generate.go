package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"aria/services"
	"aria/types"
)

// GenerateHandler handles music generation endpoints
type GenerateHandler struct {
	pipeline services.Pipeline
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(p services.Pipeline) *GenerateHandler {
	return &GenerateHandler{
		pipeline: p,
	}
}

// Generate accepts a prompt and queues a generation job
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.APIError{
			Error: "prompt is required",
		})
		return
	}

	job := h.pipeline.Submit(req.Prompt)
	log.Printf("Queued generation %s for prompt %q", job.ID, req.Prompt)

	c.JSON(http.StatusOK, types.GenerateResponse{
		GenerationID: job.ID,
	})
}

// ListGenerations returns every job the pipeline has seen
func (h *GenerateHandler) ListGenerations(c *gin.Context) {
	jobs := h.pipeline.All()
	c.JSON(http.StatusOK, gin.H{
		"generations": jobs,
		"count":       len(jobs),
	})
}

// GetGeneration returns a single job by id
func (h *GenerateHandler) GetGeneration(c *gin.Context) {
	id := c.Param("id")
	job, ok := h.pipeline.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, types.APIError{
			Error: "generation not found",
		})
		return
	}
	c.JSON(http.StatusOK, job)
}
