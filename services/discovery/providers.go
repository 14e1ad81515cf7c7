package discovery

import (
	"context"
	"time"

	"retreatly/models"
	"retreatly/services/scraper"
)

// ExternalProvider is one configured external event source: it fetches
// provider-native records and hands back normalized events plus a count of
// records dropped as malformed.
type ExternalProvider interface {
	Name() string
	Events(ctx context.Context, q scraper.Query) ([]models.CanonicalEvent, int, error)
}

// VenueProvider adapts the headless venue scraper.
type VenueProvider struct {
	Scraper *scraper.VenueScraper
}

func (p VenueProvider) Name() string { return p.Scraper.Name() }

func (p VenueProvider) Events(ctx context.Context, q scraper.Query) ([]models.CanonicalEvent, int, error) {
	recs, err := p.Scraper.Scrape(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	events, dropped := NormalizeScrapedBatch(p.Scraper.Name(), recs, time.Now())
	return events, dropped, nil
}

// TicketingProvider adapts the ticketing-API search client.
type TicketingProvider struct {
	Client *scraper.TicketingClient
}

func (p TicketingProvider) Name() string { return p.Client.Name() }

func (p TicketingProvider) Events(ctx context.Context, q scraper.Query) ([]models.CanonicalEvent, int, error) {
	recs, err := p.Client.Search(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	events, dropped := NormalizeTicketingBatch(recs)
	return events, dropped, nil
}
