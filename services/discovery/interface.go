// File: services/discovery/interface.go
package discovery

import (
	"context"
	"fmt"
	"strings"

	"retreatly/models"
	"retreatly/services/intelligence"

	"go.uber.org/zap"
)

// openSearchLimit is the top-K truncation for conversational search; the
// "similar retreats" path uses DefaultRecommendationLimit instead.
const openSearchLimit = 10

// DiscoveryService is the retreat discovery surface: a conversational
// recommendation turn, the non-conversational browse path, similar-event
// lookups, and community event submission.
type DiscoveryService interface {
	ProcessTurn(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Browse(ctx context.Context, filter models.EventFilter, userLoc *models.GeoPoint) (*models.EventPage, error)
	GetEvent(ctx context.Context, eventID string) (*models.CanonicalEvent, error)
	Similar(ctx context.Context, eventID string, limit int) ([]models.RetreatRecommendation, error)
	SubmitCommunityEvent(ctx context.Context, rec models.CommunityRecord) (*models.CanonicalEvent, error)
}

// DefaultDiscoveryService wires the sourcer, the per-session state store and
// the optional AI completion collaborator together.
type DefaultDiscoveryService struct {
	Sourcer  *Sourcer
	Sessions intelligence.SessionStore
	AI       intelligence.CompletionClient // nil disables the AI extraction path
	Logger   *zap.Logger
}

// ProcessTurn runs one conversation turn: accumulate preferences, source
// candidates, rank, estimate conversation quality, persist session state.
func (s *DefaultDiscoveryService) ProcessTurn(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	state, err := s.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	state.Turns = append(state.Turns, models.ChatTurn{Role: "user", Text: req.Text})

	delta := s.extractPreferences(ctx, req.Text)
	profile := MergePreferences(state.Profile, delta)
	profile.ConversationContext = ExtractConversationContext(state.Turns)
	if profile.Location == "" {
		// A shared coordinate stands in until the user names a place.
		profile.Location = NearestCity(req.Location)
	}

	priorQuality := state.Quality
	if priorQuality == 0 {
		// First turn of a session: neutral prior, no forced scrape.
		priorQuality = LowQualityThreshold
	}

	sourced := s.Sourcer.Source(ctx, profile, req.Text, priorQuality)
	recommendations := Rank(sourced.Events, profile, sourced.ScrapedIDs, openSearchLimit)

	avgScore := 0.0
	for _, rec := range recommendations {
		avgScore += float64(rec.MatchScore)
	}
	if len(recommendations) > 0 {
		avgScore /= float64(len(recommendations))
	}

	quality := EstimateConversationQuality(
		len(state.Turns),
		profile.FieldCount(),
		len(recommendations),
		avgScore,
		sourced.Scraping.NewRetreatsFound > 0,
	)

	reply, suggestion := buildReply(recommendations, sourced.Scraping)
	state.Turns = append(state.Turns, models.ChatTurn{Role: "assistant", Text: reply})
	state.Profile = profile
	state.Quality = quality
	if err := s.Sessions.Set(ctx, req.SessionID, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &models.ChatResponse{
		Reply:           reply,
		Recommendations: recommendations,
		Scraping:        sourced.Scraping,
		Quality:         quality,
		Suggestion:      suggestion,
	}, nil
}

// extractPreferences tries the AI collaborator first and falls back to the
// keyword heuristics when the collaborator is absent, errors, or returns
// output that does not parse.
func (s *DefaultDiscoveryService) extractPreferences(ctx context.Context, text string) PreferenceDelta {
	if s.AI != nil {
		out, err := s.AI.Complete(ctx, extractionPrompt(text))
		if err == nil {
			if delta, ok := ParsePreferenceDelta(out); ok {
				if delta.Query == "" {
					delta.Query = strings.TrimSpace(text)
				}
				return delta
			}
			s.Logger.Warn("AI extraction returned unparseable output, using heuristics")
		} else {
			s.Logger.Warn("AI extraction failed, using heuristics", zap.Error(err))
		}
	}
	return ExtractPreferencesHeuristic(text)
}

func extractionPrompt(text string) string {
	return `Extract wellness-retreat preferences from the user message below.
Respond with only a JSON object with these optional string fields:
"interests" (array), "budget" (low|medium|high), "location", "duration",
"groupSize", "experienceLevel".

User message: ` + text
}

// buildReply composes the natural-language answer and, when nothing
// matched, a suggestion to broaden the query.
func buildReply(recs []models.RetreatRecommendation, info models.ScrapingInfo) (reply, suggestion string) {
	if len(recs) == 0 {
		reply = "I couldn't find any retreats matching what you described."
		suggestion = "Try broadening your search: a wider date range, a nearby city, or a different practice."
		return reply, suggestion
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %d retreats for you. ", len(recs))
	fmt.Fprintf(&sb, "Top pick: %s (%s)", recs[0].Event.Title, recs[0].Reason)
	if info.NewRetreatsFound > 0 {
		fmt.Fprintf(&sb, ", including %d just discovered from %s",
			info.NewRetreatsFound, strings.Join(info.Sources, ", "))
	}
	return sb.String(), ""
}

// Browse applies the structured filter over the full catalog snapshot.
func (s *DefaultDiscoveryService) Browse(ctx context.Context, filter models.EventFilter, userLoc *models.GeoPoint) (*models.EventPage, error) {
	events, err := s.Sourcer.Repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return ApplyFilter(Dedupe(events), filter, userLoc)
}

// GetEvent fetches a single catalog event by its composite ID.
func (s *DefaultDiscoveryService) GetEvent(ctx context.Context, eventID string) (*models.CanonicalEvent, error) {
	event, err := s.Sourcer.Repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}
	return event, nil
}

// Similar returns the top matches for an existing event, using a synthetic
// profile built from that event's category and city.
func (s *DefaultDiscoveryService) Similar(ctx context.Context, eventID string, limit int) ([]models.RetreatRecommendation, error) {
	event, err := s.Sourcer.Repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}

	profile := models.PreferenceProfile{
		Interests: []string{string(event.Category)},
		Location:  event.Location.City,
	}

	candidates, err := s.Sourcer.Repo.Search(ctx, buildCriteria(profile, ""))
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}

	var others []models.CanonicalEvent
	for _, cand := range candidates {
		if cand.ID != event.ID {
			others = append(others, cand)
		}
	}

	return Rank(Dedupe(others), profile, nil, limit), nil
}

// SubmitCommunityEvent normalizes and stores a host-authored event.
func (s *DefaultDiscoveryService) SubmitCommunityEvent(ctx context.Context, rec models.CommunityRecord) (*models.CanonicalEvent, error) {
	event, err := NormalizeCommunity(rec)
	if err != nil {
		return nil, err
	}
	if err := s.Sourcer.Repo.Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("store community event: %w", err)
	}
	return &event, nil
}
