// File: models/filter.go
package models

import "time"

// SortMode enumerates the orderings the browse engine supports.
type SortMode string

const (
	SortByDate       SortMode = "date"
	SortByPriceAsc   SortMode = "price_asc"
	SortByPriceDesc  SortMode = "price_desc"
	SortByTitle      SortMode = "title"
	SortByPopularity SortMode = "popularity"
	SortByDistance   SortMode = "distance"
)

// FilterAll is the wildcard value: an absent or "All" filter always matches.
const FilterAll = "All"

// EventFilter is the structured filter state for catalog browsing.
// Predicates are AND-combined.
type EventFilter struct {
	Query      string        `json:"query,omitempty"`      // free text over title/description/city
	Category   EventCategory `json:"category,omitempty"`   // "" or FilterAll matches everything
	Region     string        `json:"region,omitempty"`     // matched against city/state
	PriceRange string        `json:"priceRange,omitempty"` // "$0-$100", "$100+", "" or "All"
	DateFrom   time.Time     `json:"dateFrom,omitempty"`
	DateTo     time.Time     `json:"dateTo,omitempty"`
	Source     string        `json:"source,omitempty"` // source tab, "" or "All"
	SortBy     SortMode      `json:"sortBy,omitempty"`
	Page       int           `json:"page,omitempty"`
	PageSize   int           `json:"pageSize,omitempty"`
}

// EventPage is one page of filtered, sorted results.
type EventPage struct {
	Events   []CanonicalEvent `json:"events"`
	Total    int              `json:"total"` // matches before pagination
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}
