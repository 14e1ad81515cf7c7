// File: retreatly/handlers/bundle.go
package handlers

import (
	eventRepoPkg "retreatly/database/repository/event"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	EventRepo eventRepoPkg.EventRepository

	// Discovery endpoints
	ChatHandler gin.HandlerFunc

	// Event endpoints
	BrowseEventsHandler  gin.HandlerFunc
	GetEventHandler      gin.HandlerFunc
	SimilarEventsHandler gin.HandlerFunc
	SubmitEventHandler   gin.HandlerFunc
}
