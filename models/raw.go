// File: models/raw.go
package models

import "time"

// Provider-native records, as handed over by the scraping and search
// collaborators. The discovery normalizers turn these into CanonicalEvents;
// nothing outside normalization should touch them.

// ScrapedRecord is what the venue-site scraper extracts from one event card.
// Dates arrive in whatever shape the page used: a day number plus a month
// abbreviation, a free-text time range, or nothing.
type ScrapedRecord struct {
	SourceID    string
	Title       string
	Description string
	Category    string // free text, e.g. "Sound Healing Circle"
	Day         string // e.g. "14"
	Month       string // e.g. "Sep"
	TimeText    string // e.g. "7:00 PM - 9:00 PM"
	FullDay     bool   // source is known to list full-day programs
	Location    string // free-text venue line
	PriceText   string // e.g. "$45" or "Free"
	URL         string
	ImageURL    string
	ScrapedAt   time.Time
}

// TicketingRecord is one hit from the ticketing-API search collaborator.
type TicketingRecord struct {
	ID              string
	Name            string
	Info            string
	Classifications []string // provider category labels
	StartISO        string   // RFC 3339, may be empty
	EndISO          string
	VenueName       string
	Address         string
	City            string
	State           string
	Zip             string
	MinPrice        float64
	URL             string
	ImageURL        string
}

// CommunityRecord is a host/CMS-authored event submission.
type CommunityRecord struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	VenueName   string     `json:"venueName"`
	Address     string     `json:"address"`
	Price       float64    `json:"price"`
	BookingURL  string     `json:"bookingUrl"`
	ImageURL    string     `json:"imageUrl"`
	Organizer   string     `json:"organizer"`
	Website     string     `json:"website"`
	Capacity    int        `json:"capacity"`
}
