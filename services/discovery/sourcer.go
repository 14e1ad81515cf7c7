package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	eventRepo "retreatly/database/repository/event"
	"retreatly/models"
	"retreatly/services/scraper"

	"go.uber.org/zap"
)

// Sourcing defaults; overridable per Sourcer instance from config.
const (
	DefaultMinLocalResults = 3
	DefaultProviderTimeout = 8 * time.Second
)

// ScrapedCache receives freshly scraped events for background persistence.
// Writes are fire-and-forget from the sourcer's perspective.
type ScrapedCache interface {
	EnqueueCache(events []models.CanonicalEvent) error
}

// Sourcer gathers candidate events from the local catalog and, when the
// catalog comes up short or the conversation has been going poorly, from
// the configured external providers.
type Sourcer struct {
	Repo            eventRepo.EventRepository
	Providers       []ExternalProvider
	Cache           ScrapedCache // optional
	MinLocalResults int
	ProviderTimeout time.Duration
	Logger          *zap.Logger
}

// SourcingResult is one sourcing cycle's output: the merged candidate set
// plus what external sourcing happened and what it found.
type SourcingResult struct {
	Events     []models.CanonicalEvent
	Scraping   models.ScrapingInfo
	ScrapedIDs map[string]bool // IDs first seen via external providers this cycle
	Dropped    int             // malformed records dropped during normalization
}

func (s *Sourcer) minLocal() int {
	if s.MinLocalResults > 0 {
		return s.MinLocalResults
	}
	return DefaultMinLocalResults
}

func (s *Sourcer) timeout() time.Duration {
	if s.ProviderTimeout > 0 {
		return s.ProviderTimeout
	}
	return DefaultProviderTimeout
}

// Source runs one sourcing cycle. The local catalog is always consulted;
// external providers are consulted concurrently when the local result count
// falls below the minimum or the prior turn's conversation quality was low.
// A failed provider is logged and excluded from Sources; the cycle always
// returns whatever it gathered.
func (s *Sourcer) Source(ctx context.Context, profile models.PreferenceProfile, query string, priorQuality int) *SourcingResult {
	local, err := s.Repo.Search(ctx, buildCriteria(profile, query))
	if err != nil {
		s.Logger.Warn("catalog search failed, continuing with external providers only", zap.Error(err))
		local = nil
	}
	local = Dedupe(local)

	result := &SourcingResult{
		Events:     local,
		ScrapedIDs: make(map[string]bool),
	}

	if len(local) >= s.minLocal() && priorQuality >= LowQualityThreshold {
		return result
	}
	if len(s.Providers) == 0 {
		return result
	}

	q := scraper.Query{
		FreeText: query,
		Keywords: profile.Interests,
		Location: profile.Location,
	}

	type providerResult struct {
		events  []models.CanonicalEvent
		dropped int
		err     error
	}

	results := make([]providerResult, len(s.Providers))
	var wg sync.WaitGroup
	for i, p := range s.Providers {
		wg.Add(1)
		go func(i int, p ExternalProvider) {
			defer wg.Done()
			// Per-provider timeout: a slow provider fails alone without
			// holding up the others.
			pctx, cancel := context.WithTimeout(ctx, s.timeout())
			defer cancel()
			events, dropped, err := p.Events(pctx, q)
			results[i] = providerResult{events: events, dropped: dropped, err: err}
		}(i, p)
	}
	wg.Wait()

	known := make(map[string]bool, len(local))
	for _, ev := range local {
		known[ev.ID] = true
	}

	var sources []string
	newFound := 0
	var fresh []models.CanonicalEvent
	for i, p := range s.Providers {
		res := results[i]
		if res.err != nil {
			perr := &ProviderError{Provider: p.Name(), Err: res.err}
			s.Logger.Warn("external provider failed", zap.String("provider", p.Name()), zap.Error(perr))
			continue
		}
		sources = append(sources, p.Name())
		result.Dropped += res.dropped
		for _, ev := range res.events {
			if known[ev.ID] {
				continue
			}
			known[ev.ID] = true
			result.Events = append(result.Events, ev)
			result.ScrapedIDs[ev.ID] = true
			fresh = append(fresh, ev)
			newFound++
		}
	}

	result.Scraping = models.ScrapingInfo{
		NewRetreatsFound: newFound,
		Sources:          sources,
	}

	if s.Cache != nil && len(fresh) > 0 {
		if err := s.Cache.EnqueueCache(fresh); err != nil {
			s.Logger.Warn("failed to enqueue scraped events for caching", zap.Error(err))
		}
	}

	return result
}

// buildCriteria converts the preference profile into structured catalog
// predicates: category/interest overlap, location containment and a price
// ceiling from the stated budget.
func buildCriteria(profile models.PreferenceProfile, query string) eventRepo.SearchCriteria {
	criteria := eventRepo.SearchCriteria{Location: profile.Location}

	for _, interest := range profile.Interests {
		if cat := models.EventCategory(strings.ToLower(interest)); cat.Valid() {
			criteria.Categories = append(criteria.Categories, cat)
		} else {
			criteria.Keywords = append(criteria.Keywords, interest)
		}
	}

	// A bare query with no extracted interests still needs something to
	// match on: use its longer words as keywords.
	if len(criteria.Categories) == 0 && len(criteria.Keywords) == 0 {
		for _, word := range strings.Fields(query) {
			if len(word) > 3 {
				criteria.Keywords = append(criteria.Keywords, word)
			}
		}
	}

	switch profile.Budget {
	case "low":
		criteria.MaxPrice = 100
	case "medium":
		criteria.MaxPrice = 300
	}

	return criteria
}
