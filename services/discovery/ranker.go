package discovery

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"retreatly/models"
)

// DefaultRecommendationLimit is the top-K truncation for "similar retreats";
// open search passes a larger limit.
const DefaultRecommendationLimit = 3

// Scoring weights. Each signal contributes monotonically and the total is
// bounded to [0,100]. Centralized here so the heuristics stay tunable.
const (
	MaxInterestPoints = 45.0
	MaxLocationPoints = 20.0
	MaxPricePoints    = 20.0
	MaxRecencyPoints  = 15.0
)

// Price ceilings per stated budget. Prices above the ceiling decay linearly
// to zero at the cutoff.
const (
	lowBudgetCeiling    = 100.0
	mediumBudgetCeiling = 300.0
	priceDecayCutoff    = 500.0
)

// Dedupe removes events with a duplicate ID, keeping the first occurrence.
// IDs are provider+source-id pairs, so the same physical retreat listed by
// two different providers is not caught here. That cross-provider case is a
// documented limitation of the sourcing model, not something this pass
// silently papers over.
func Dedupe(events []models.CanonicalEvent) []models.CanonicalEvent {
	seen := make(map[string]bool, len(events))
	out := make([]models.CanonicalEvent, 0, len(events))
	for _, ev := range events {
		if seen[ev.ID] {
			continue
		}
		seen[ev.ID] = true
		out = append(out, ev)
	}
	return out
}

// Rank scores candidates against the profile, orders them by descending
// match score and truncates to limit. Ties break on higher remaining
// availability, then nearer start date, so re-ranking the same inputs
// always yields the same order.
func Rank(candidates []models.CanonicalEvent, profile models.PreferenceProfile, scraped map[string]bool, limit int) []models.RetreatRecommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	recs := make([]models.RetreatRecommendation, 0, len(candidates))
	for _, ev := range candidates {
		score, reason := scoreEvent(ev, profile)
		recs = append(recs, models.RetreatRecommendation{
			Event:      ev,
			MatchScore: score,
			Reason:     reason,
			IsScraped:  scraped[ev.ID],
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].MatchScore != recs[j].MatchScore {
			return recs[i].MatchScore > recs[j].MatchScore
		}
		if recs[i].Event.Remaining != recs[j].Event.Remaining {
			return recs[i].Event.Remaining > recs[j].Event.Remaining
		}
		return recs[i].Event.StartDate.Before(recs[j].Event.StartDate)
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// scoreEvent computes the bounded heuristic match score plus a human-readable
// reason built from whichever signals fired.
func scoreEvent(ev models.CanonicalEvent, profile models.PreferenceProfile) (int, string) {
	var total float64
	var reasons []string

	if pts, matched := interestScore(ev, profile.Interests); pts > 0 {
		total += pts
		reasons = append(reasons, "matches your interest in "+strings.Join(matched, ", "))
	}

	if pts := locationScore(ev, profile.Location); pts > 0 {
		total += pts
		if ev.Online() {
			reasons = append(reasons, "available online")
		} else {
			reasons = append(reasons, "near "+profile.Location)
		}
	}

	if pts := priceScore(ev.Price, profile.Budget); pts > 0 {
		total += pts
		reasons = append(reasons, "fits your budget")
	}

	if pts := recencyScore(ev.StartDate, profile.ConversationContext); pts > 0 {
		total += pts
		reasons = append(reasons, "timing lines up")
	}

	score := int(total + 0.5)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	reason := strings.Join(reasons, "; ")
	if reason == "" {
		reason = fmt.Sprintf("a %s event you might like", ev.Category)
	}
	return score, reason
}

// interestScore awards points proportional to how many of the profile's
// interest tags appear in the event's category, title or description.
func interestScore(ev models.CanonicalEvent, interests []string) (float64, []string) {
	if len(interests) == 0 {
		return 0, nil
	}
	haystack := strings.ToLower(string(ev.Category) + " " + ev.Title + " " + ev.Description)
	var matched []string
	for _, interest := range interests {
		if strings.Contains(haystack, strings.ToLower(interest)) {
			matched = append(matched, interest)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}
	return MaxInterestPoints * float64(len(matched)) / float64(len(interests)), matched
}

// locationScore awards full points when the preferred location is contained
// in the event's location fields and half points for online events, which
// are reachable from anywhere.
func locationScore(ev models.CanonicalEvent, location string) float64 {
	if location == "" {
		return 0
	}
	loc := strings.ToLower(location)
	fields := strings.ToLower(strings.Join([]string{
		ev.Location.City, ev.Location.State, ev.Location.Name, ev.Location.Address,
	}, " "))
	if strings.Contains(fields, loc) {
		return MaxLocationPoints
	}
	if ev.Online() {
		return MaxLocationPoints / 2
	}
	return 0
}

// priceScore awards full points inside the stated budget's ceiling and
// decays linearly to zero at the cutoff, so cheaper is never worse.
func priceScore(price float64, budget string) float64 {
	var ceiling float64
	switch budget {
	case "low":
		ceiling = lowBudgetCeiling
	case "medium":
		ceiling = mediumBudgetCeiling
	case "high":
		return MaxPricePoints
	default:
		return 0
	}
	if price <= ceiling {
		return MaxPricePoints
	}
	if price >= priceDecayCutoff {
		return 0
	}
	return MaxPricePoints * (priceDecayCutoff - price) / (priceDecayCutoff - ceiling)
}

// recencyScore aligns the event's start date with urgency tags extracted
// from the conversation.
func recencyScore(start time.Time, conversationContext string) float64 {
	until := time.Until(start)
	switch {
	case strings.Contains(conversationContext, "urgent"):
		if until <= 14*24*time.Hour {
			return MaxRecencyPoints
		}
		if until <= 30*24*time.Hour {
			return MaxRecencyPoints / 2
		}
	case strings.Contains(conversationContext, "planning_ahead"):
		if until >= 30*24*time.Hour {
			return MaxRecencyPoints
		}
	}
	return 0
}
