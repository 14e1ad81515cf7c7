package discovery

import (
	"encoding/json"
	"strings"

	"retreatly/models"
)

// PreferenceDelta is what one conversation turn contributed. Empty fields
// mean "the turn did not mention this" and leave the profile untouched.
type PreferenceDelta struct {
	Interests       []string `json:"interests,omitempty"`
	Budget          string   `json:"budget,omitempty"`
	Location        string   `json:"location,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	GroupSize       string   `json:"groupSize,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Query           string   `json:"query,omitempty"` // the search this turn implies
}

// MergePreferences folds a turn's delta into the running profile. Scalar
// fields overwrite when the delta carries a value; PreviousSearches appends
// the latest query unless it duplicates the last entry. A field the latest
// turn didn't mention is never dropped.
func MergePreferences(prior models.PreferenceProfile, delta PreferenceDelta) models.PreferenceProfile {
	merged := prior
	if len(delta.Interests) > 0 {
		merged.Interests = delta.Interests
	}
	if delta.Budget != "" {
		merged.Budget = delta.Budget
	}
	if delta.Location != "" {
		merged.Location = delta.Location
	}
	if delta.Duration != "" {
		merged.Duration = delta.Duration
	}
	if delta.GroupSize != "" {
		merged.GroupSize = delta.GroupSize
	}
	if delta.ExperienceLevel != "" {
		merged.ExperienceLevel = delta.ExperienceLevel
	}
	query := strings.TrimSpace(delta.Query)
	if query != "" {
		last := ""
		if n := len(merged.PreviousSearches); n > 0 {
			last = merged.PreviousSearches[n-1]
		}
		if query != last {
			merged.PreviousSearches = append(merged.PreviousSearches, query)
		}
	}
	return merged
}

// interestKeywords maps message keywords to interest tags for the heuristic
// extraction path.
var interestKeywords = []struct {
	keywords []string
	interest string
}{
	{[]string{"yoga", "asana"}, "yoga"},
	{[]string{"meditation", "mindfulness"}, "meditation"},
	{[]string{"fitness", "exercise", "workout"}, "fitness"},
	{[]string{"nutrition", "food", "diet"}, "nutrition"},
	{[]string{"retreat", "getaway"}, "retreat"},
	{[]string{"sound", "healing"}, "healing"},
	{[]string{"breathwork", "breathing"}, "breathwork"},
}

// ExtractPreferencesHeuristic derives a preference delta from a single user
// message by keyword scanning. It is the fallback when the AI collaborator
// is unavailable or returns unparseable output.
func ExtractPreferencesHeuristic(text string) PreferenceDelta {
	lower := strings.ToLower(text)
	delta := PreferenceDelta{Query: strings.TrimSpace(text)}

	for _, rule := range interestKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				delta.Interests = append(delta.Interests, rule.interest)
				break
			}
		}
	}

	switch {
	case strings.Contains(lower, "budget"), strings.Contains(lower, "affordable"), strings.Contains(lower, "cheap"):
		delta.Budget = "low"
	case strings.Contains(lower, "premium"), strings.Contains(lower, "luxury"):
		delta.Budget = "high"
	}

	switch {
	case strings.Contains(lower, "beginner"), strings.Contains(lower, "new to"):
		delta.ExperienceLevel = "beginner"
	case strings.Contains(lower, "advanced"), strings.Contains(lower, "experienced"):
		delta.ExperienceLevel = "advanced"
	}

	switch {
	case strings.Contains(lower, "weekend"):
		delta.Duration = "weekend"
	case strings.Contains(lower, "week-long"), strings.Contains(lower, "full week"):
		delta.Duration = "week"
	case strings.Contains(lower, "day "), strings.HasSuffix(lower, "day"):
		delta.Duration = "day"
	}

	switch {
	case strings.Contains(lower, "group"), strings.Contains(lower, "friends"):
		delta.GroupSize = "group"
	case strings.Contains(lower, "couple"), strings.Contains(lower, "partner"):
		delta.GroupSize = "couple"
	case strings.Contains(lower, "solo"), strings.Contains(lower, "myself"), strings.Contains(lower, "alone"):
		delta.GroupSize = "solo"
	}

	if loc := extractLocationPhrase(lower); loc != "" {
		delta.Location = loc
	}

	return delta
}

// extractLocationPhrase pulls a location out of phrases like "in Austin" or
// "near Boulder". Best effort only; misses just leave the field unset.
func extractLocationPhrase(lower string) string {
	for _, marker := range []string{" in ", " near ", " around "} {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(lower[idx+len(marker):])
		if rest == "" {
			continue
		}
		words := strings.FieldsFunc(rest, func(r rune) bool {
			return r == ',' || r == '.' || r == '?' || r == '!'
		})
		if len(words) == 0 {
			continue
		}
		phrase := strings.Fields(words[0])
		if len(phrase) > 2 {
			phrase = phrase[:2]
		}
		return strings.Join(phrase, " ")
	}
	return ""
}

// ParsePreferenceDelta decodes structured extraction output from the AI
// collaborator. Returns false when the text is not usable, in which case
// the caller falls back to the heuristic path.
func ParsePreferenceDelta(raw string) (PreferenceDelta, bool) {
	raw = strings.TrimSpace(raw)
	// Models frequently wrap JSON in markdown fences.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return PreferenceDelta{}, false
	}
	var delta PreferenceDelta
	if err := json.Unmarshal([]byte(raw[start:end+1]), &delta); err != nil {
		return PreferenceDelta{}, false
	}
	return delta, true
}
