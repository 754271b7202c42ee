package ai

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medvault-backend/internal/shared/server/respond"
)

// Handler exposes the standalone summarize and analyze endpoints.
type Handler struct {
	Svc *Service
}

type textRequest struct {
	Text string `json:"text"`
}

// RegisterRoutes mounts the AI routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summarize", h.summarize)
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) summarize(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "missing_text", "Text is required for summarization", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": h.Svc.Summarize(c.Request.Context(), req.Text)})
}

func (h *Handler) analyze(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "missing_text", "Text is required for analysis", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": h.Svc.Analyze(c.Request.Context(), req.Text)})
}
