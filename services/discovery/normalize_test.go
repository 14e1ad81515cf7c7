package discovery

import (
	"testing"
	"time"

	"retreatly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var normalizeNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.EventCategory
	}{
		{"yoga keyword", "Sunrise Yoga Flow", models.CategoryYoga},
		{"asana keyword", "Asana fundamentals for everyone", models.CategoryYoga},
		{"meditation keyword", "Guided Meditation Circle", models.CategoryMeditation},
		{"mindfulness keyword", "Mindfulness for busy people", models.CategoryMeditation},
		{"fitness keyword", "Morning fitness bootcamp", models.CategoryFitness},
		{"nutrition keyword", "Whole food nutrition basics", models.CategoryNutrition},
		{"retreat keyword", "Weekend forest retreat", models.CategoryRetreat},
		{"online keyword", "Online breathwork session", models.CategoryOnline},
		{"no match defaults to workshop", "Pottery for beginners", models.CategoryWorkshop},
		{"yoga outranks retreat", "Yoga retreat in the hills", models.CategoryYoga},
		{"meditation outranks online", "Virtual meditation evening", models.CategoryMeditation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCategory(tt.text))
		})
	}
}

func TestNormalizeScrapedDateResolution(t *testing.T) {
	t.Run("day and month in current year", func(t *testing.T) {
		ev, err := NormalizeScraped("venue", models.ScrapedRecord{
			Title: "Evening Meditation",
			Day:   "15",
			Month: "Aug",
		}, normalizeNow)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC), ev.StartDate)
		assert.Equal(t, ev.StartDate.Add(2*time.Hour), ev.EndDate)
	})

	t.Run("day month plus time range", func(t *testing.T) {
		ev, err := NormalizeScraped("venue", models.ScrapedRecord{
			Title:    "Evening Meditation",
			Day:      "15",
			Month:    "August",
			TimeText: "7:00 PM - 9:00 PM",
		}, normalizeNow)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.August, 15, 19, 0, 0, 0, time.UTC), ev.StartDate)
	})

	t.Run("time range only lands on today", func(t *testing.T) {
		ev, err := NormalizeScraped("venue", models.ScrapedRecord{
			Title:    "Lunchtime Flow",
			TimeText: "12 PM",
		}, normalizeNow)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC), ev.StartDate)
	})

	t.Run("full day gets eight hours", func(t *testing.T) {
		ev, err := NormalizeScraped("venue", models.ScrapedRecord{
			Title:   "Day of Silence",
			Day:     "1",
			Month:   "Sep",
			FullDay: true,
		}, normalizeNow)
		require.NoError(t, err)
		assert.Equal(t, ev.StartDate.Add(8*time.Hour), ev.EndDate)
	})

	t.Run("no derivable date is malformed", func(t *testing.T) {
		_, err := NormalizeScraped("venue", models.ScrapedRecord{Title: "Mystery Event"}, normalizeNow)
		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "venue", malformed.Source)
	})

	t.Run("missing title is malformed", func(t *testing.T) {
		_, err := NormalizeScraped("venue", models.ScrapedRecord{Day: "15", Month: "Aug"}, normalizeNow)
		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
	})
}

func TestNormalizeScrapedFields(t *testing.T) {
	ev, err := NormalizeScraped("venue", models.ScrapedRecord{
		SourceID:    "abc123",
		Title:       "  Sound Bath & Meditation  ",
		Description: "Deep rest with crystal bowls. Bring a mat and a blanket.",
		Day:         "20",
		Month:       "Jul",
		Location:    "The Still Point, Austin, TX 78704",
		PriceText:   "From $45",
		URL:         "https://example.com/sound-bath",
	}, normalizeNow)
	require.NoError(t, err)

	assert.Equal(t, "venue-abc123", ev.ID)
	assert.Equal(t, "Sound Bath & Meditation", ev.Title)
	assert.Equal(t, "Deep rest with crystal bowls.", ev.ShortDescription)
	assert.Equal(t, models.CategoryMeditation, ev.Category)
	assert.Equal(t, "Austin", ev.Location.City)
	assert.Equal(t, "TX", ev.Location.State)
	assert.Equal(t, "78704", ev.Location.Zip)
	assert.Equal(t, 45.0, ev.Price)
	assert.Equal(t, "venue", ev.Source)
}

func TestNormalizeScrapedRetreatFallback(t *testing.T) {
	// A venue record with no category keywords anywhere falls back to
	// retreat, not workshop.
	ev, err := NormalizeScraped("venue", models.ScrapedRecord{
		Title: "Evening Gathering",
		Day:   "4",
		Month: "Oct",
	}, normalizeNow)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRetreat, ev.Category)
}

func TestNormalizeScrapedGeneratesID(t *testing.T) {
	ev, err := NormalizeScraped("venue", models.ScrapedRecord{
		Title: "Breathwork Basics",
		Day:   "2",
		Month: "Nov",
	}, normalizeNow)
	require.NoError(t, err)
	assert.NotEqual(t, "venue-", ev.ID)
	assert.Contains(t, ev.ID, "venue-")
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		text   string
		hour   int
		minute int
		ok     bool
	}{
		{"7:00 PM - 9:00 PM", 19, 0, true},
		{"7:30 AM", 7, 30, true},
		{"12 PM", 12, 0, true},
		{"12 AM", 0, 0, true},
		{"noon-ish", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		hour, minute, ok := parseClock(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		if tt.ok {
			assert.Equal(t, tt.hour, hour, tt.text)
			assert.Equal(t, tt.minute, minute, tt.text)
		}
	}
}

func TestSplitCityState(t *testing.T) {
	tests := []struct {
		address string
		city    string
		state   string
		zip     string
	}{
		{"123 Main St, Austin, TX 78704", "Austin", "TX", "78704"},
		{"The Lodge, Sedona, AZ 86336", "Sedona", "AZ", "86336"},
		{"Boulder, CO 80302", "Boulder", "CO", "80302"},
		{"somewhere without commas", "", "", ""},
	}
	for _, tt := range tests {
		city, state, zip := splitCityState(tt.address)
		assert.Equal(t, tt.city, city, tt.address)
		assert.Equal(t, tt.state, state, tt.address)
		assert.Equal(t, tt.zip, zip, tt.address)
	}
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 45.0, parsePrice("$45"))
	assert.Equal(t, 120.0, parsePrice("From $120"))
	assert.Equal(t, 99.99, parsePrice("$99.99"))
	assert.Equal(t, 0.0, parsePrice("Free admission"))
	assert.Equal(t, 0.0, parsePrice(""))
}

func TestBuildLocationOnline(t *testing.T) {
	loc := buildLocation("Online via Zoom", "")
	assert.Equal(t, models.LocationOnline, loc.Type)

	loc = buildLocation("", "")
	assert.Equal(t, models.LocationVenue, loc.Type)
	assert.Equal(t, models.DefaultLocationName, loc.Name)
}

func TestNormalizeScrapedBatchDropsAndCounts(t *testing.T) {
	recs := []models.ScrapedRecord{
		{Title: "One", Day: "1", Month: "Jul"},
		{Title: "", Day: "2", Month: "Jul"}, // no title
		{Title: "Three", Day: "3", Month: "Jul"},
		{Title: "Four"}, // no date
		{Title: "Five", Day: "5", Month: "Jul"},
	}
	events, dropped := NormalizeScrapedBatch("venue", recs, normalizeNow)
	assert.Len(t, events, 3)
	assert.Equal(t, 2, dropped)
}

func TestNormalizeTicketing(t *testing.T) {
	t.Run("explicit timestamps win", func(t *testing.T) {
		ev, err := NormalizeTicketing(models.TicketingRecord{
			ID:              "tm-1",
			Name:            "Wellness Expo",
			Classifications: []string{"Health"},
			StartISO:        "2025-09-01T10:00:00Z",
			EndISO:          "2025-09-01T16:00:00Z",
			City:            "Portland",
			State:           "OR",
			MinPrice:        25,
		})
		require.NoError(t, err)
		assert.Equal(t, "ticketing-tm-1", ev.ID)
		assert.Equal(t, models.CategoryNutrition, ev.Category)
		assert.Equal(t, time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC), ev.StartDate)
		assert.Equal(t, time.Date(2025, time.September, 1, 16, 0, 0, 0, time.UTC), ev.EndDate)
		assert.Equal(t, "Portland", ev.Location.City)
	})

	t.Run("missing end defaults to two hours", func(t *testing.T) {
		ev, err := NormalizeTicketing(models.TicketingRecord{
			ID:       "tm-2",
			Name:     "Yoga in the Park",
			StartISO: "2025-09-02T08:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, ev.StartDate.Add(2*time.Hour), ev.EndDate)
		assert.Equal(t, models.CategoryYoga, ev.Category)
	})

	t.Run("unparseable start is malformed", func(t *testing.T) {
		_, err := NormalizeTicketing(models.TicketingRecord{Name: "Broken", StartISO: "next tuesday"})
		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
	})
}

func TestNormalizeCommunity(t *testing.T) {
	start := time.Date(2025, time.October, 3, 17, 0, 0, 0, time.UTC)

	t.Run("capacity primes remaining", func(t *testing.T) {
		ev, err := NormalizeCommunity(models.CommunityRecord{
			Title:    "Community Sound Healing",
			Category: "meditation",
			Start:    &start,
			Capacity: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, 40, ev.Capacity)
		assert.Equal(t, 40, ev.Remaining)
		assert.Equal(t, models.CategoryMeditation, ev.Category)
		assert.Equal(t, SourceCommunity, ev.Source)
	})

	t.Run("missing start is malformed", func(t *testing.T) {
		_, err := NormalizeCommunity(models.CommunityRecord{Title: "No Date"})
		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
	})
}
