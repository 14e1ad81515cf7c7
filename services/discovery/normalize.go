package discovery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"retreatly/models"

	"github.com/google/uuid"
)

// Source names stamped onto normalized events.
const (
	SourceCatalog   = "catalog"
	SourceCommunity = "community"
	SourceTicketing = "ticketing"
)

// Default event durations when a provider supplies no explicit end.
const (
	defaultDuration = 2 * time.Hour
	fullDayDuration = 8 * time.Hour
)

// categoryRules is the priority-ordered keyword table for category
// inference over free text. First rule whose keyword appears wins.
var categoryRules = []struct {
	keywords []string
	category models.EventCategory
}{
	{[]string{"yoga", "asana"}, models.CategoryYoga},
	{[]string{"meditation", "mindfulness"}, models.CategoryMeditation},
	{[]string{"fitness", "exercise"}, models.CategoryFitness},
	{[]string{"nutrition", "food"}, models.CategoryNutrition},
	{[]string{"retreat"}, models.CategoryRetreat},
	{[]string{"online", "virtual"}, models.CategoryOnline},
}

// categoryLabels maps known provider category labels to enumeration values,
// used when a provider supplies an explicit category list.
var categoryLabels = map[string]models.EventCategory{
	"yoga":        models.CategoryYoga,
	"meditation":  models.CategoryMeditation,
	"mindfulness": models.CategoryMeditation,
	"fitness":     models.CategoryFitness,
	"wellness":    models.CategoryFitness,
	"nutrition":   models.CategoryNutrition,
	"health":      models.CategoryNutrition,
	"retreat":     models.CategoryRetreat,
	"online":      models.CategoryOnline,
	"workshop":    models.CategoryWorkshop,
	"seminar":     models.CategoryWorkshop,
}

// InferCategory scans the given texts against the keyword table and returns
// the first matching category, or workshop when nothing matches.
func InferCategory(texts ...string) models.EventCategory {
	if cat, ok := matchCategoryKeywords(texts...); ok {
		return cat
	}
	return models.CategoryWorkshop
}

func matchCategoryKeywords(texts ...string) (models.EventCategory, bool) {
	joined := strings.ToLower(strings.Join(texts, " "))
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(joined, kw) {
				return rule.category, true
			}
		}
	}
	return "", false
}

// mapCategoryList maps a provider's category labels through the fixed
// dictionary and takes the first hit. Providers that skew meditative pass
// CategoryRetreat as the fallback, everything else CategoryWorkshop.
func mapCategoryList(labels []string, fallback models.EventCategory) models.EventCategory {
	for _, label := range labels {
		if cat, ok := categoryLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
			return cat
		}
	}
	return fallback
}

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// clockRegex captures the leading time of a free-text range like
// "7:00 PM - 9:00 PM" or "7 PM".
var clockRegex = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(AM|PM)`)

// parseClock extracts the start of a 12-hour time range as 24-hour
// hour/minute. Minutes default to 0 when unparseable.
func parseClock(text string) (hour, minute int, ok bool) {
	m := clockRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, false
	}
	if m[2] != "" {
		if parsed, err := strconv.Atoi(m[2]); err == nil {
			minute = parsed
		}
	}
	if strings.EqualFold(m[3], "PM") && hour != 12 {
		hour += 12
	}
	if strings.EqualFold(m[3], "AM") && hour == 12 {
		hour = 0
	}
	return hour, minute, true
}

// parseDayMonth builds a date in the current year from a day number and a
// month abbreviation.
func parseDayMonth(day, month string, now time.Time) (time.Time, bool) {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	key := strings.ToLower(strings.TrimSpace(month))
	if len(key) > 3 {
		key = key[:3]
	}
	m, ok := monthAbbrevs[key]
	if !ok {
		return time.Time{}, false
	}
	return time.Date(now.Year(), m, d, 12, 0, 0, 0, now.Location()), true
}

// stateZipRegex matches a trailing "XX NNNNN"-shaped token in an address.
var stateZipRegex = regexp.MustCompile(`([A-Z]{2})\s+(\d+)`)

// splitCityState best-effort extracts city, state and zip from a free-text
// address: second-to-last comma segment is the city, the state comes from a
// two-letter-plus-digits trailing token. Everything defaults to empty.
func splitCityState(address string) (city, state, zip string) {
	parts := strings.Split(address, ",")
	if len(parts) >= 2 {
		city = strings.TrimSpace(parts[len(parts)-2])
	}
	if m := stateZipRegex.FindStringSubmatch(address); m != nil {
		state = m[1]
		zip = m[2]
	}
	return city, state, zip
}

// isOnlineText reports whether location or venue text indicates a remote event.
func isOnlineText(texts ...string) bool {
	joined := strings.ToLower(strings.Join(texts, " "))
	return strings.Contains(joined, "online") || strings.Contains(joined, "virtual")
}

var priceRegex = regexp.MustCompile(`(\d+(?:\.\d{1,2})?)`)

// parsePrice extracts a numeric price from text like "$45" or "From $120".
// Absent or unparseable prices mean free.
func parsePrice(text string) float64 {
	if strings.Contains(strings.ToLower(text), "free") {
		return 0
	}
	m := priceRegex.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return price
}

func buildLocation(name, address string) models.EventLocation {
	locType := models.LocationVenue
	if isOnlineText(name, address) {
		locType = models.LocationOnline
	}
	if strings.TrimSpace(name) == "" {
		name = models.DefaultLocationName
	}
	city, state, zip := splitCityState(address)
	return models.EventLocation{
		Type:    locType,
		Name:    strings.TrimSpace(name),
		Address: strings.TrimSpace(address),
		City:    city,
		State:   state,
		Zip:     zip,
	}
}

// NormalizeScraped converts one venue-page record into a CanonicalEvent.
// It fails with a MalformedRecordError when the record lacks a title or any
// derivable date. The venue provider skews meditative, so unmapped
// categories fall back to retreat.
func NormalizeScraped(source string, rec models.ScrapedRecord, now time.Time) (models.CanonicalEvent, error) {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		return models.CanonicalEvent{}, newMalformedRecord(source, "missing title")
	}

	// Date resolution, most specific first: day+month in the current year,
	// then a bare time range on today's date.
	var start time.Time
	if day, ok := parseDayMonth(rec.Day, rec.Month, now); ok {
		start = day
		if hour, minute, ok := parseClock(rec.TimeText); ok {
			start = time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, now.Location())
		}
	} else if hour, minute, ok := parseClock(rec.TimeText); ok {
		start = time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	} else {
		return models.CanonicalEvent{}, newMalformedRecord(source, "no derivable date")
	}

	duration := defaultDuration
	if rec.FullDay {
		duration = fullDayDuration
	}

	category, ok := matchCategoryKeywords(rec.Category, title, rec.Description)
	if !ok {
		category = models.CategoryRetreat
	}

	sourceID := rec.SourceID
	if sourceID == "" {
		sourceID = uuid.New().String()
	}

	return models.CanonicalEvent{
		ID:               fmt.Sprintf("%s-%s", source, sourceID),
		Title:            title,
		ShortDescription: firstSentence(rec.Description),
		Description:      strings.TrimSpace(rec.Description),
		ImageURL:         rec.ImageURL,
		Category:         category,
		StartDate:        start,
		EndDate:          start.Add(duration),
		Location:         buildLocation(rec.Location, rec.Location),
		BookingURL:       rec.URL,
		Price:            parsePrice(rec.PriceText),
		Source:           source,
		Organizer:        models.Organizer{Name: source},
	}, nil
}

// NormalizeTicketing converts one ticketing-API search hit.
func NormalizeTicketing(rec models.TicketingRecord) (models.CanonicalEvent, error) {
	title := strings.TrimSpace(rec.Name)
	if title == "" {
		return models.CanonicalEvent{}, newMalformedRecord(SourceTicketing, "missing name")
	}
	start, err := time.Parse(time.RFC3339, rec.StartISO)
	if err != nil {
		return models.CanonicalEvent{}, newMalformedRecord(SourceTicketing, "no parseable start date")
	}
	end := start.Add(defaultDuration)
	if parsed, err := time.Parse(time.RFC3339, rec.EndISO); err == nil && parsed.After(start) {
		end = parsed
	}

	category := mapCategoryList(rec.Classifications, models.EventCategory(""))
	if category == "" {
		category = InferCategory(title, rec.Info)
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}

	loc := buildLocation(rec.VenueName, rec.Address)
	if rec.City != "" {
		loc.City = rec.City
	}
	if rec.State != "" {
		loc.State = rec.State
	}
	if rec.Zip != "" {
		loc.Zip = rec.Zip
	}

	return models.CanonicalEvent{
		ID:               SourceTicketing + "-" + id,
		Title:            title,
		ShortDescription: firstSentence(rec.Info),
		Description:      strings.TrimSpace(rec.Info),
		ImageURL:         rec.ImageURL,
		Category:         category,
		StartDate:        start,
		EndDate:          end,
		Location:         loc,
		BookingURL:       rec.URL,
		Price:            rec.MinPrice,
		Source:           SourceTicketing,
		Organizer:        models.Organizer{Name: "Ticketing Partner"},
	}, nil
}

// NormalizeCommunity converts a host-authored submission from the CMS.
func NormalizeCommunity(rec models.CommunityRecord) (models.CanonicalEvent, error) {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		return models.CanonicalEvent{}, newMalformedRecord(SourceCommunity, "missing title")
	}
	if rec.Start == nil {
		return models.CanonicalEvent{}, newMalformedRecord(SourceCommunity, "missing start date")
	}
	start := *rec.Start
	end := start.Add(defaultDuration)
	if rec.End != nil && rec.End.After(start) {
		end = *rec.End
	}

	category := mapCategoryList([]string{rec.Category}, models.EventCategory(""))
	if category == "" {
		category = InferCategory(rec.Category, title, rec.Description)
	}

	return models.CanonicalEvent{
		ID:               SourceCommunity + "-" + uuid.New().String(),
		Title:            title,
		ShortDescription: firstSentence(rec.Description),
		Description:      strings.TrimSpace(rec.Description),
		ImageURL:         rec.ImageURL,
		Category:         category,
		StartDate:        start,
		EndDate:          end,
		Location:         buildLocation(rec.VenueName, rec.Address),
		BookingURL:       rec.BookingURL,
		Price:            rec.Price,
		Source:           SourceCommunity,
		Organizer:        models.Organizer{Name: rec.Organizer, Website: rec.Website},
		Capacity:         rec.Capacity,
		Remaining:        rec.Capacity,
	}, nil
}

// NormalizeScrapedBatch runs NormalizeScraped over a batch, dropping (and
// counting) malformed records instead of aborting.
func NormalizeScrapedBatch(source string, recs []models.ScrapedRecord, now time.Time) ([]models.CanonicalEvent, int) {
	var events []models.CanonicalEvent
	dropped := 0
	for _, rec := range recs {
		ev, err := NormalizeScraped(source, rec, now)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, ev)
	}
	return events, dropped
}

// NormalizeTicketingBatch runs NormalizeTicketing over a batch with the same
// drop-and-count policy.
func NormalizeTicketingBatch(recs []models.TicketingRecord) ([]models.CanonicalEvent, int) {
	var events []models.CanonicalEvent
	dropped := 0
	for _, rec := range recs {
		ev, err := NormalizeTicketing(rec)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, ev)
	}
	return events, dropped
}

// firstSentence trims a description to its first sentence for card display.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, ". "); idx > 0 {
		return text[:idx+1]
	}
	if len(text) > 140 {
		return text[:140]
	}
	return text
}
