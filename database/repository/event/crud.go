package eventRepo

import (
	"context"
	"errors"

	"retreatly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert stores a single catalog event.
func (r *mongoEventRepo) Insert(ctx context.Context, event models.CanonicalEvent) error {
	if event.ID == "" {
		return errors.New("event must have an id")
	}
	_, err := r.coll.InsertOne(ctx, event)
	return err
}

// GetByID returns a catalog event by its ID.
func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (*models.CanonicalEvent, error) {
	var event models.CanonicalEvent
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// All returns the full catalog, used by the browse engine.
func (r *mongoEventRepo) All(ctx context.Context) ([]models.CanonicalEvent, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.CanonicalEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// UpsertScraped caches freshly scraped events keyed by their ID. Events are
// replaced rather than patched; a re-scrape supersedes the cached document.
func (r *mongoEventRepo) UpsertScraped(ctx context.Context, events []models.CanonicalEvent) error {
	if len(events) == 0 {
		return nil
	}
	var writes []mongo.WriteModel
	for _, ev := range events {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": ev.ID}).
			SetReplacement(ev).
			SetUpsert(true))
	}
	_, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
