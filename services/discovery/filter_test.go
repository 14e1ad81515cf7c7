package discovery

import (
	"testing"
	"time"

	"retreatly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []models.CanonicalEvent {
	base := time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC)
	mk := func(id, title string, cat models.EventCategory, city, state string, price float64, daysOut int) models.CanonicalEvent {
		return models.CanonicalEvent{
			ID:        id,
			Title:     title,
			Category:  cat,
			Price:     price,
			StartDate: base.AddDate(0, 0, daysOut),
			Source:    "catalog",
			Location:  models.EventLocation{Type: models.LocationVenue, City: city, State: state},
		}
	}
	online := mk("catalog-8", "Virtual Breathwork", models.CategoryOnline, "", "", 15, 3)
	online.Location = models.EventLocation{Type: models.LocationOnline, Name: "Online"}

	return []models.CanonicalEvent{
		mk("catalog-1", "Sunrise Yoga", models.CategoryYoga, "Austin", "TX", 30, 1),
		mk("catalog-2", "Hill Country Yoga Retreat", models.CategoryYoga, "Austin", "TX", 250, 10),
		mk("catalog-3", "Desert Meditation", models.CategoryMeditation, "Sedona", "AZ", 90, 5),
		mk("catalog-4", "Mountain Fitness Camp", models.CategoryFitness, "Boulder", "CO", 120, 7),
		mk("catalog-5", "Free Community Yoga", models.CategoryYoga, "Austin", "TX", 0, 2),
		mk("catalog-6", "Nutrition Intensive", models.CategoryNutrition, "Portland", "OR", 60, 14),
		mk("catalog-7", "Forest Retreat Weekend", models.CategoryRetreat, "Asheville", "NC", 400, 20),
		online,
		mk("catalog-9", "Sound Healing Journey", models.CategoryMeditation, "San Francisco", "CA", 180, 30),
		mk("catalog-10", "Partner Acro Workshop", models.CategoryWorkshop, "New York", "NY", 220, 25),
	}
}

func TestApplyFilterCombinedPredicates(t *testing.T) {
	events := filterFixture()

	page, err := ApplyFilter(events, models.EventFilter{
		Category:   models.CategoryYoga,
		PriceRange: "$0-$100",
		SortBy:     models.SortByDate,
	}, nil)
	require.NoError(t, err)

	// Yoga AND affordable: the $250 retreat drops out, dates ascend.
	require.Len(t, page.Events, 2)
	assert.Equal(t, "catalog-1", page.Events[0].ID)
	assert.Equal(t, "catalog-5", page.Events[1].ID)
	assert.Equal(t, 2, page.Total)
}

func TestApplyFilterWildcards(t *testing.T) {
	events := filterFixture()

	page, err := ApplyFilter(events, models.EventFilter{
		Category:   models.EventCategory(models.FilterAll),
		Region:     models.FilterAll,
		PriceRange: models.FilterAll,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, len(events), page.Total)
}

func TestApplyFilterQuery(t *testing.T) {
	page, err := ApplyFilter(filterFixture(), models.EventFilter{Query: "retreat"}, nil)
	require.NoError(t, err)
	require.Len(t, page.Events, 2)
	for _, ev := range page.Events {
		assert.Contains(t, []string{"catalog-2", "catalog-7"}, ev.ID)
	}
}

func TestApplyFilterRegion(t *testing.T) {
	page, err := ApplyFilter(filterFixture(), models.EventFilter{Region: "TX"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	page, err = ApplyFilter(filterFixture(), models.EventFilter{Region: "sedona"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestApplyFilterDateWindow(t *testing.T) {
	from := time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.July, 12, 0, 0, 0, 0, time.UTC)

	page, err := ApplyFilter(filterFixture(), models.EventFilter{DateFrom: from, DateTo: to}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	for _, ev := range page.Events {
		assert.False(t, ev.StartDate.Before(from))
		assert.False(t, ev.StartDate.After(to))
	}
}

func TestApplyFilterPriceBrackets(t *testing.T) {
	t.Run("open-ended bracket", func(t *testing.T) {
		page, err := ApplyFilter(filterFixture(), models.EventFilter{PriceRange: "$200+"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("unparseable bracket is a filter error", func(t *testing.T) {
		_, err := ApplyFilter(filterFixture(), models.EventFilter{PriceRange: "expensive"}, nil)
		var ferr *FilterError
		require.ErrorAs(t, err, &ferr)
	})

	t.Run("inverted bracket is a filter error", func(t *testing.T) {
		_, err := ApplyFilter(filterFixture(), models.EventFilter{PriceRange: "$100-$50"}, nil)
		var ferr *FilterError
		require.ErrorAs(t, err, &ferr)
	})
}

func TestApplyFilterInvalidState(t *testing.T) {
	t.Run("end date before start date", func(t *testing.T) {
		_, err := ApplyFilter(filterFixture(), models.EventFilter{
			DateFrom: time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		}, nil)
		var ferr *FilterError
		require.ErrorAs(t, err, &ferr)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := ApplyFilter(filterFixture(), models.EventFilter{Category: "spelunking"}, nil)
		var ferr *FilterError
		require.ErrorAs(t, err, &ferr)
	})
}

func TestApplyFilterSorting(t *testing.T) {
	events := filterFixture()

	t.Run("price ascending", func(t *testing.T) {
		page, err := ApplyFilter(events, models.EventFilter{SortBy: models.SortByPriceAsc}, nil)
		require.NoError(t, err)
		for i := 1; i < len(page.Events); i++ {
			assert.LessOrEqual(t, page.Events[i-1].Price, page.Events[i].Price)
		}
	})

	t.Run("price descending", func(t *testing.T) {
		page, err := ApplyFilter(events, models.EventFilter{SortBy: models.SortByPriceDesc}, nil)
		require.NoError(t, err)
		assert.Equal(t, "catalog-7", page.Events[0].ID)
	})

	t.Run("title is case-insensitive alphabetical", func(t *testing.T) {
		page, err := ApplyFilter(events, models.EventFilter{SortBy: models.SortByTitle}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Desert Meditation", page.Events[0].Title)
	})

	t.Run("popularity uses booked count", func(t *testing.T) {
		popular := filterFixture()
		popular[3].Capacity = 50
		popular[3].Remaining = 5
		page, err := ApplyFilter(popular, models.EventFilter{SortBy: models.SortByPopularity}, nil)
		require.NoError(t, err)
		assert.Equal(t, "catalog-4", page.Events[0].ID)
	})

	t.Run("distance with a user location", func(t *testing.T) {
		userLoc := models.NewGeoPoint(30.2672, -97.7431) // Austin
		page, err := ApplyFilter(events, models.EventFilter{SortBy: models.SortByDistance}, &userLoc)
		require.NoError(t, err)
		assert.Equal(t, "Austin", page.Events[0].Location.City)
		// Online and un-geocodable events sort last.
		assert.Equal(t, "catalog-8", page.Events[len(page.Events)-1].ID)
	})

	t.Run("distance without a user location falls back to date", func(t *testing.T) {
		page, err := ApplyFilter(events, models.EventFilter{SortBy: models.SortByDistance}, nil)
		require.NoError(t, err)
		for i := 1; i < len(page.Events); i++ {
			assert.False(t, page.Events[i].StartDate.Before(page.Events[i-1].StartDate))
		}
	})
}

func TestApplyFilterPagination(t *testing.T) {
	events := filterFixture()

	t.Run("pages partition the sorted set", func(t *testing.T) {
		first, err := ApplyFilter(events, models.EventFilter{SortBy: models.SortByDate, Page: 1, PageSize: 3}, nil)
		require.NoError(t, err)
		second, err := ApplyFilter(events, models.EventFilter{SortBy: models.SortByDate, Page: 2, PageSize: 3}, nil)
		require.NoError(t, err)

		assert.Len(t, first.Events, 3)
		assert.Len(t, second.Events, 3)
		assert.Equal(t, len(events), first.Total)
		assert.NotEqual(t, first.Events[0].ID, second.Events[0].ID)
	})

	t.Run("page past the end is empty not an error", func(t *testing.T) {
		page, err := ApplyFilter(events, models.EventFilter{Page: 99, PageSize: 5}, nil)
		require.NoError(t, err)
		assert.Empty(t, page.Events)
		assert.Equal(t, len(events), page.Total)
	})

	t.Run("defaults applied for zero values", func(t *testing.T) {
		page, err := ApplyFilter(events, models.EventFilter{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, defaultPageSize, page.PageSize)
	})
}

func TestNearestCity(t *testing.T) {
	austin := models.NewGeoPoint(30.30, -97.70)
	assert.Equal(t, "austin", NearestCity(&austin))

	// Middle of the Pacific: nothing within range.
	nowhere := models.NewGeoPoint(0, -150)
	assert.Equal(t, "", NearestCity(&nowhere))

	assert.Equal(t, "", NearestCity(nil))
}

func TestParsePriceBracket(t *testing.T) {
	tests := []struct {
		bracket  string
		minPrice float64
		maxPrice float64
		ok       bool
		wantErr  bool
	}{
		{"$0-$100", 0, 100, true, false},
		{"50-150", 50, 150, true, false},
		{"$200+", 200, 0, true, false},
		{"All", 0, 0, false, false},
		{"", 0, 0, false, false},
		{"cheap", 0, 0, false, true},
	}
	for _, tt := range tests {
		minPrice, maxPrice, ok, err := parsePriceBracket(tt.bracket)
		if tt.wantErr {
			assert.Error(t, err, tt.bracket)
			continue
		}
		require.NoError(t, err, tt.bracket)
		assert.Equal(t, tt.ok, ok, tt.bracket)
		if tt.ok {
			assert.Equal(t, tt.minPrice, minPrice, tt.bracket)
			if tt.maxPrice > 0 {
				assert.Equal(t, tt.maxPrice, maxPrice, tt.bracket)
			}
		}
	}
}
