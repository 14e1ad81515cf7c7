// File: handlers/discovery.go
package handlers

import (
	"net/http"

	"retreatly/models"
	"retreatly/services/discovery"
	"retreatly/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiscoveryHandler exposes the conversational discovery surface.
type DiscoveryHandler struct {
	Svc    discovery.DiscoveryService
	Logger *zap.Logger
}

func NewDiscoveryHandler(svc discovery.DiscoveryService, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{Svc: svc, Logger: logger}
}

// ChatHandler processes one conversation turn and returns the reply plus
// ranked recommendations and the cycle's scraping info.
func (h *DiscoveryHandler) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", err.Error())
		return
	}
	if req.Text == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", "text is required")
		return
	}
	if req.SessionID == "" {
		// New conversation: mint a session so the profile can accumulate.
		req.SessionID = uuid.New().String()
	}

	resp, err := h.Svc.ProcessTurn(c.Request.Context(), req)
	if err != nil {
		h.Logger.Error("chat turn failed", zap.String("session", req.SessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", "Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":          req.SessionID,
		"reply":               resp.Reply,
		"recommendations":     resp.Recommendations,
		"scrapingInfo":        resp.Scraping,
		"conversationQuality": resp.Quality,
		"suggestion":          resp.Suggestion,
	})
}
