package discovery

import (
	"strings"

	"retreatly/models"
)

// recentTurnWindow bounds how far back the context extractor looks.
const recentTurnWindow = 10

// contextTagRules is the fixed keyword-to-tag table scanned over recent user
// turns. Multiple tags may fire per turn.
var contextTagRules = []struct {
	keywords []string
	tag      string
}{
	{[]string{"meditation", "mindfulness"}, "meditation"},
	{[]string{"yoga"}, "yoga"},
	{[]string{"sound", "healing"}, "healing"},
	{[]string{"stress", "anxiety"}, "stress_relief"},
	{[]string{"beginner", "new to"}, "beginner_friendly"},
	{[]string{"advanced", "experienced"}, "advanced_level"},
	{[]string{"budget", "affordable", "cheap"}, "budget_conscious"},
	{[]string{"premium", "luxury"}, "premium_experience"},
	{[]string{"soon", "asap", "this week"}, "urgent"},
	{[]string{"planning", "future", "maybe"}, "planning_ahead"},
}

// ExtractContextTags scans the most recent user turns against the tag table
// and returns the detected tags, order-preserving unique across turns.
// Pure function of the turn window.
func ExtractContextTags(turns []models.ChatTurn) []string {
	var userTurns []models.ChatTurn
	for _, turn := range turns {
		if turn.Role == "user" {
			userTurns = append(userTurns, turn)
		}
	}
	if len(userTurns) > recentTurnWindow {
		userTurns = userTurns[len(userTurns)-recentTurnWindow:]
	}

	seen := make(map[string]bool)
	var tags []string
	for _, turn := range userTurns {
		text := strings.ToLower(turn.Text)
		for _, rule := range contextTagRules {
			for _, kw := range rule.keywords {
				if strings.Contains(text, kw) {
					if !seen[rule.tag] {
						seen[rule.tag] = true
						tags = append(tags, rule.tag)
					}
					break
				}
			}
		}
	}
	return tags
}

// ExtractConversationContext returns the comma-joined context tag set for
// storage on the preference profile.
func ExtractConversationContext(turns []models.ChatTurn) string {
	return strings.Join(ExtractContextTags(turns), ", ")
}
