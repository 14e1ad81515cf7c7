// File: models/preference.go
package models

// PreferenceProfile is the accumulated, per-conversation record of what a
// user has told us so far. Scalar fields are overwritten by newer turns;
// PreviousSearches only grows. The profile lives and dies with its session.
type PreferenceProfile struct {
	Interests           []string `json:"interests,omitempty"`
	Budget              string   `json:"budget,omitempty"`
	Location            string   `json:"location,omitempty"`
	Duration            string   `json:"duration,omitempty"`
	GroupSize           string   `json:"groupSize,omitempty"`
	ExperienceLevel     string   `json:"experienceLevel,omitempty"`
	PreviousSearches    []string `json:"previousSearches,omitempty"`
	ConversationContext string   `json:"conversationContext,omitempty"`
}

// FieldCount returns how many preference fields carry a value. Feeds the
// conversation quality estimate.
func (p PreferenceProfile) FieldCount() int {
	count := 0
	if len(p.Interests) > 0 {
		count++
	}
	for _, v := range []string{p.Budget, p.Location, p.Duration, p.GroupSize, p.ExperienceLevel} {
		if v != "" {
			count++
		}
	}
	return count
}

// RetreatRecommendation pairs a candidate event with its scoring metadata.
// Immutable; it lives for one response cycle.
type RetreatRecommendation struct {
	Event      CanonicalEvent `json:"event"`
	MatchScore int            `json:"matchScore"` // 0..100
	Reason     string         `json:"reason"`
	IsScraped  bool           `json:"isScraped"`
}

// ScrapingInfo reports what one sourcing cycle did against external
// providers. Created once per Candidate Sourcer invocation, never persisted.
type ScrapingInfo struct {
	NewRetreatsFound int      `json:"newRetreatsFound"`
	Sources          []string `json:"sources"`
}
