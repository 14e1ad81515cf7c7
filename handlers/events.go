// File: handlers/events.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"retreatly/middleware"
	"retreatly/models"
	"retreatly/services/discovery"
	"retreatly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventsHandler exposes the catalog browsing surface.
type EventsHandler struct {
	Svc    discovery.DiscoveryService
	Logger *zap.Logger
}

func NewEventsHandler(svc discovery.DiscoveryService, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{Svc: svc, Logger: logger}
}

// BrowseHandler applies query-string filters and returns one sorted page.
func (h *EventsHandler) BrowseHandler(c *gin.Context) {
	filter := models.EventFilter{
		Query:      c.Query("q"),
		Category:   models.EventCategory(c.Query("category")),
		Region:     c.Query("region"),
		PriceRange: c.Query("priceRange"),
		Source:     c.Query("source"),
		SortBy:     models.SortMode(c.Query("sortBy")),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("pageSize")); err == nil {
		filter.PageSize = size
	}
	if from := c.Query("dateFrom"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid filter", "dateFrom must be YYYY-MM-DD")
			return
		}
		filter.DateFrom = parsed
	}
	if to := c.Query("dateTo"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid filter", "dateTo must be YYYY-MM-DD")
			return
		}
		filter.DateTo = parsed
	}

	page, err := h.Svc.Browse(c.Request.Context(), filter, userLocation(c))
	if err != nil {
		var filterErr *discovery.FilterError
		if errors.As(err, &filterErr) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid filter", filterErr.Message)
			return
		}
		h.Logger.Error("browse failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load events", "Please try again.")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetEventHandler returns one catalog event by ID.
func (h *EventsHandler) GetEventHandler(c *gin.Context) {
	event, err := h.Svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Event not found", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, event)
}

// SimilarHandler returns the top-ranked events similar to the given one.
func (h *EventsHandler) SimilarHandler(c *gin.Context) {
	limit := discovery.DefaultRecommendationLimit
	if parsed, err := strconv.Atoi(c.Query("limit")); err == nil && parsed > 0 {
		limit = parsed
	}

	recs, err := h.Svc.Similar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Event not found", c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// SubmitEventHandler accepts a host-authored community event.
func (h *EventsHandler) SubmitEventHandler(c *gin.Context) {
	var rec models.CommunityRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid event submission", err.Error())
		return
	}

	event, err := h.Svc.SubmitCommunityEvent(c.Request.Context(), rec)
	if err != nil {
		var malformed *discovery.MalformedRecordError
		if errors.As(err, &malformed) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid event submission", malformed.Reason)
			return
		}
		h.Logger.Error("community event submission failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to store event", "Please try again.")
		return
	}

	c.JSON(http.StatusCreated, event)
}

// userLocation pulls the geolocation middleware's resolved coordinate, when
// resolution succeeded.
func userLocation(c *gin.Context) *models.GeoPoint {
	if v, exists := c.Get(middleware.ContextKeyGeoPoint); exists {
		if point, ok := v.(*models.GeoPoint); ok {
			return point
		}
	}
	return nil
}
