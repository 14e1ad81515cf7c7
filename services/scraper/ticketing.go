// File: services/scraper/ticketing.go
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"retreatly/models"
)

// TicketingClient searches the ticketing partner's event API. One call is
// one attempt; the sourcer's per-provider timeout arrives via ctx.
type TicketingClient struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTicketingClient builds a client against the partner API.
func NewTicketingClient(name, baseURL, apiKey string) *TicketingClient {
	return &TicketingClient{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies this provider in ScrapingInfo.Sources.
func (c *TicketingClient) Name() string { return c.name }

// ticketingEvent is the partner's wire shape for one search hit.
type ticketingEvent struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Info            string   `json:"info"`
	Classifications []string `json:"classifications"`
	Start           string   `json:"startDateTime"`
	End             string   `json:"endDateTime"`
	Venue           struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
		State   string `json:"state"`
		Zip     string `json:"zip"`
	} `json:"venue"`
	MinPrice float64 `json:"minPrice"`
	URL      string  `json:"url"`
	ImageURL string  `json:"imageUrl"`
}

// Search queries the partner API with the location, interest keywords and
// date window from the query.
func (c *TicketingClient) Search(ctx context.Context, q Query) ([]models.TicketingRecord, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if kw := q.KeywordString(); kw != "" {
		params.Set("keyword", kw)
	}
	if q.Location != "" {
		params.Set("city", q.Location)
	}
	if !q.From.IsZero() {
		params.Set("startDateTime", q.From.Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		params.Set("endDateTime", q.To.Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build ticketing request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticketing search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticketing search returned status %d", resp.StatusCode)
	}

	var payload struct {
		Events []ticketingEvent `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode ticketing response: %w", err)
	}

	records := make([]models.TicketingRecord, 0, len(payload.Events))
	for _, ev := range payload.Events {
		records = append(records, models.TicketingRecord{
			ID:              ev.ID,
			Name:            ev.Name,
			Info:            ev.Info,
			Classifications: ev.Classifications,
			StartISO:        ev.Start,
			EndISO:          ev.End,
			VenueName:       ev.Venue.Name,
			Address:         ev.Venue.Address,
			City:            ev.Venue.City,
			State:           ev.Venue.State,
			Zip:             ev.Venue.Zip,
			MinPrice:        ev.MinPrice,
			URL:             ev.URL,
			ImageURL:        ev.ImageURL,
		})
	}
	return records, nil
}
