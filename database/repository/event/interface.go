package eventRepo

import (
	"context"
	"log"

	"retreatly/database"
	"retreatly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SearchCriteria drives catalog lookups from structured preferences.
// Zero values mean "no constraint".
type SearchCriteria struct {
	Categories []models.EventCategory // category/interest overlap
	Keywords   []string               // matched against title and description
	Location   string                 // matched against city/state/venue name
	MaxPrice   float64                // 0 means unbounded
	Limit      int64
}

// EventRepository is the read interface over the first-party catalog plus
// the cache of previously scraped events. Writes of freshly scraped records
// are fire-and-forget from the discovery core's perspective.
type EventRepository interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]models.CanonicalEvent, error)
	GetByID(ctx context.Context, id string) (*models.CanonicalEvent, error)
	All(ctx context.Context) ([]models.CanonicalEvent, error)
	Insert(ctx context.Context, event models.CanonicalEvent) error
	UpsertScraped(ctx context.Context, events []models.CanonicalEvent) error
}

type mongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo returns a new EventRepository instance using MongoDB.
func NewMongoEventRepo() EventRepository {
	db := database.MongoClient.Database("retreatly")
	repo := &mongoEventRepo{
		coll: db.Collection("events"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		log.Printf("event repo: failed to ensure indexes: %v", err)
	}
	return repo
}
