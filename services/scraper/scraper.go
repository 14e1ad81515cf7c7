// File: services/scraper/scraper.go
package scraper

import (
	"strings"
	"time"
)

// Query carries the search intent handed to every external provider.
type Query struct {
	FreeText string    // the user's latest message or search box text
	Keywords []string  // interest tags from the preference profile
	Location string    // preferred city/region, free text
	From     time.Time // date window, zero values mean unbounded
	To       time.Time
}

// KeywordString flattens the query into a single keyword phrase for
// providers that take one search term.
func (q Query) KeywordString() string {
	if len(q.Keywords) > 0 {
		return strings.Join(q.Keywords, " ")
	}
	return q.FreeText
}
