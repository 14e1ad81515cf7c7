// File: models/conversation.go
package models

// ChatTurn is one immutable message in a discovery conversation.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// ChatRequest is the payload coming from the frontend into /api/discovery/chat.
type ChatRequest struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Location  *GeoPoint `json:"locationGeo,omitempty"` // user's current location, if shared
}

// ChatResponse is what the discovery handler returns to the frontend.
type ChatResponse struct {
	Reply           string                  `json:"reply"`
	Recommendations []RetreatRecommendation `json:"recommendations"`
	Scraping        ScrapingInfo            `json:"scrapingInfo"`
	Quality         int                     `json:"conversationQuality"`
	Suggestion      string                  `json:"suggestion,omitempty"` // set when nothing matched
}

// SessionState is everything the discovery service keeps per conversation.
// Owned by one session; the caller serializes turns within a session.
type SessionState struct {
	Turns   []ChatTurn        `json:"turns"`
	Profile PreferenceProfile `json:"profile"`
	Quality int               `json:"quality"` // prior turn's conversation quality
}
