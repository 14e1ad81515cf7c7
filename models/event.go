// File: models/event.go
package models

import "time"

// EventCategory is the fixed category enumeration every provider record
// is coerced into. Unrecognized provider categories map to CategoryWorkshop.
type EventCategory string

const (
	CategoryYoga       EventCategory = "yoga"
	CategoryMeditation EventCategory = "meditation"
	CategoryFitness    EventCategory = "fitness"
	CategoryNutrition  EventCategory = "nutrition"
	CategoryWorkshop   EventCategory = "workshop"
	CategoryRetreat    EventCategory = "retreat"
	CategoryOnline     EventCategory = "online"
)

// AllCategories lists the valid enumeration values in display order.
var AllCategories = []EventCategory{
	CategoryYoga,
	CategoryMeditation,
	CategoryFitness,
	CategoryNutrition,
	CategoryWorkshop,
	CategoryRetreat,
	CategoryOnline,
}

// Valid reports whether c is one of the fixed enumeration values.
func (c EventCategory) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

type LocationType string

const (
	LocationVenue  LocationType = "venue"
	LocationOnline LocationType = "online"
)

// DefaultLocationName is used when a provider supplies no venue name at all.
const DefaultLocationName = "Location TBA"

// EventLocation describes where an event happens. Only Name is guaranteed
// to be non-empty; everything else is best-effort parsed from provider text.
type EventLocation struct {
	Type    LocationType `bson:"type" json:"locationType"`
	Name    string       `bson:"name" json:"name"`
	Address string       `bson:"address,omitempty" json:"address,omitempty"`
	City    string       `bson:"city,omitempty" json:"city,omitempty"`
	State   string       `bson:"state,omitempty" json:"state,omitempty"`
	Zip     string       `bson:"zip,omitempty" json:"zip,omitempty"`
}

// Organizer identifies who runs an event.
type Organizer struct {
	Name    string `bson:"name" json:"name"`
	Website string `bson:"website,omitempty" json:"website,omitempty"`
}

// CanonicalEvent is the unified representation every source is normalized
// into. It is created once per normalization pass and never mutated after;
// a change (e.g. remaining seats) is a re-normalize and re-insert.
type CanonicalEvent struct {
	ID               string        `bson:"id" json:"id"` // source + "-" + source-native id
	Title            string        `bson:"title" json:"title"`
	ShortDescription string        `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	Description      string        `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL         string        `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Category         EventCategory `bson:"category" json:"category"`
	StartDate        time.Time     `bson:"startDate" json:"startDate"`
	EndDate          time.Time     `bson:"endDate" json:"endDate"`
	Location         EventLocation `bson:"location" json:"location"`
	BookingURL       string        `bson:"bookingUrl,omitempty" json:"bookingUrl,omitempty"`
	Price            float64       `bson:"price" json:"price"` // 0 means free
	Source           string        `bson:"source" json:"source"`
	Organizer        Organizer     `bson:"organizer" json:"organizer"`
	Capacity         int           `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Remaining        int           `bson:"remaining,omitempty" json:"remaining,omitempty"`
}

// Booked returns how many seats have been taken, used as the popularity
// sort key. Zero when capacity is unknown.
func (e CanonicalEvent) Booked() int {
	if e.Capacity <= 0 {
		return 0
	}
	booked := e.Capacity - e.Remaining
	if booked < 0 {
		return 0
	}
	return booked
}

// Online reports whether the event happens remotely.
func (e CanonicalEvent) Online() bool {
	return e.Location.Type == LocationOnline
}
