package discovery

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"retreatly/models"
)

const defaultPageSize = 20

// priceBracketRegex matches "$0-$100" and "$100+" shaped brackets.
var priceBracketRegex = regexp.MustCompile(`^\$?(\d+)(?:\s*-\s*\$?(\d+)|\s*\+)?$`)

// parsePriceBracket turns a bracket string into an inclusive [min,max]
// range. ok is false for the wildcard; an unparseable non-wildcard string
// is a filter validation error.
func parsePriceBracket(bracket string) (minPrice, maxPrice float64, ok bool, err error) {
	bracket = strings.TrimSpace(bracket)
	if bracket == "" || bracket == models.FilterAll {
		return 0, 0, false, nil
	}
	m := priceBracketRegex.FindStringSubmatch(bracket)
	if m == nil {
		return 0, 0, false, NewFilterError("unrecognized price range " + strconv.Quote(bracket))
	}
	minPrice, _ = strconv.ParseFloat(m[1], 64)
	if m[2] == "" {
		return minPrice, math.MaxFloat64, true, nil
	}
	maxPrice, _ = strconv.ParseFloat(m[2], 64)
	if maxPrice < minPrice {
		return 0, 0, false, NewFilterError("price range upper bound below lower bound")
	}
	return minPrice, maxPrice, true, nil
}

// validateFilter rejects internally inconsistent filter state before any
// data is scanned.
func validateFilter(f models.EventFilter) error {
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateTo.Before(f.DateFrom) {
		return NewFilterError("end date before start date")
	}
	if f.Category != "" && string(f.Category) != models.FilterAll && !f.Category.Valid() {
		return NewFilterError("unknown category " + strconv.Quote(string(f.Category)))
	}
	if _, _, _, err := parsePriceBracket(f.PriceRange); err != nil {
		return err
	}
	return nil
}

// ApplyFilter runs the structured filter over a dataset snapshot and returns
// one sorted page. Pure function of (events, filter, userLoc), so callers
// can memoize on the snapshot. Predicates are AND-combined; an absent or
// "All" value always matches. Distance sort needs a resolved user location
// and falls back to date order without one.
func ApplyFilter(events []models.CanonicalEvent, f models.EventFilter, userLoc *models.GeoPoint) (*models.EventPage, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}

	minPrice, maxPrice, priceSet, _ := parsePriceBracket(f.PriceRange)
	query := strings.ToLower(strings.TrimSpace(f.Query))
	region := strings.ToLower(strings.TrimSpace(f.Region))

	var matched []models.CanonicalEvent
	for _, ev := range events {
		if query != "" && !matchesQuery(ev, query) {
			continue
		}
		if f.Category != "" && string(f.Category) != models.FilterAll && ev.Category != f.Category {
			continue
		}
		if region != "" && region != strings.ToLower(models.FilterAll) && !matchesRegion(ev, region) {
			continue
		}
		if priceSet && (ev.Price < minPrice || ev.Price > maxPrice) {
			continue
		}
		if !f.DateFrom.IsZero() && ev.StartDate.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && ev.StartDate.After(f.DateTo) {
			continue
		}
		if f.Source != "" && f.Source != models.FilterAll && ev.Source != f.Source {
			continue
		}
		matched = append(matched, ev)
	}

	sortEvents(matched, f.SortBy, userLoc)

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size <= 0 {
		size = defaultPageSize
	}

	total := len(matched)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return &models.EventPage{
		Events:   matched[start:end],
		Total:    total,
		Page:     page,
		PageSize: size,
	}, nil
}

func matchesQuery(ev models.CanonicalEvent, query string) bool {
	return strings.Contains(strings.ToLower(ev.Title), query) ||
		strings.Contains(strings.ToLower(ev.Description), query) ||
		strings.Contains(strings.ToLower(ev.Location.City), query)
}

func matchesRegion(ev models.CanonicalEvent, region string) bool {
	return strings.Contains(strings.ToLower(ev.Location.City), region) ||
		strings.Contains(strings.ToLower(ev.Location.State), region)
}

// sortEvents orders the matched set in place. Unknown sort modes, and a
// distance sort without a resolved user location, fall back to date order.
func sortEvents(events []models.CanonicalEvent, mode models.SortMode, userLoc *models.GeoPoint) {
	byDate := func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) }

	switch mode {
	case models.SortByPriceAsc:
		sort.SliceStable(events, func(i, j int) bool { return events[i].Price < events[j].Price })
	case models.SortByPriceDesc:
		sort.SliceStable(events, func(i, j int) bool { return events[i].Price > events[j].Price })
	case models.SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
		})
	case models.SortByPopularity:
		sort.SliceStable(events, func(i, j int) bool { return events[i].Booked() > events[j].Booked() })
	case models.SortByDistance:
		if userLoc == nil {
			sort.SliceStable(events, byDate)
			return
		}
		lat, lon, ok := userLoc.LatLon()
		if !ok {
			sort.SliceStable(events, byDate)
			return
		}
		sort.SliceStable(events, func(i, j int) bool {
			return eventDistanceKm(events[i], lat, lon) < eventDistanceKm(events[j], lat, lon)
		})
	default:
		sort.SliceStable(events, byDate)
	}
}

// eventDistanceKm approximates distance from the user to an event. Online
// events and events without a resolvable position sort last.
func eventDistanceKm(ev models.CanonicalEvent, lat, lon float64) float64 {
	evLat, evLon, ok := eventCoordinates(ev)
	if !ok {
		return math.MaxFloat64
	}
	return haversine(lat, lon, evLat, evLon)
}

// cityCoordinates is a small gazetteer for catalog cities; events outside it
// simply sort last under distance ordering.
var cityCoordinates = map[string][2]float64{
	"austin":        {30.2672, -97.7431},
	"boulder":       {40.0150, -105.2705},
	"sedona":        {34.8697, -111.7610},
	"san francisco": {37.7749, -122.4194},
	"los angeles":   {34.0522, -118.2437},
	"new york":      {40.7128, -74.0060},
	"portland":      {45.5152, -122.6784},
	"asheville":     {35.5951, -82.5515},
}

// maxNearestCityKm bounds how far a shared coordinate may sit from a
// gazetteer city before it stops counting as "near" it.
const maxNearestCityKm = 150.0

// NearestCity returns the gazetteer city closest to the shared coordinate,
// used as a location default when the user shares a position but never
// names a city. Empty when nothing is within range.
func NearestCity(point *models.GeoPoint) string {
	if point == nil {
		return ""
	}
	lat, lon, ok := point.LatLon()
	if !ok {
		return ""
	}
	best := ""
	bestDist := math.MaxFloat64
	for city, coords := range cityCoordinates {
		if d := haversine(lat, lon, coords[0], coords[1]); d < bestDist {
			bestDist = d
			best = city
		}
	}
	if bestDist > maxNearestCityKm {
		return ""
	}
	return best
}

func eventCoordinates(ev models.CanonicalEvent) (float64, float64, bool) {
	if ev.Online() {
		return 0, 0, false
	}
	if coords, ok := cityCoordinates[strings.ToLower(ev.Location.City)]; ok {
		return coords[0], coords[1], true
	}
	return 0, 0, false
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
