package eventRepo

import (
	"context"

	"retreatly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultSearchLimit = 50

// Search runs a structured catalog query built from preference predicates.
// All supplied criteria are AND-combined; keyword and location matches are
// case-insensitive regexes, which is adequate at catalog scale.
func (r *mongoEventRepo) Search(ctx context.Context, criteria SearchCriteria) ([]models.CanonicalEvent, error) {
	var clauses []bson.M

	if len(criteria.Categories) > 0 {
		clauses = append(clauses, bson.M{"category": bson.M{"$in": criteria.Categories}})
	}

	if len(criteria.Keywords) > 0 {
		var kw []bson.M
		for _, word := range criteria.Keywords {
			re := primitive.Regex{Pattern: word, Options: "i"}
			kw = append(kw, bson.M{"title": re}, bson.M{"description": re})
		}
		clauses = append(clauses, bson.M{"$or": kw})
	}

	if criteria.Location != "" {
		re := primitive.Regex{Pattern: criteria.Location, Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"location.city": re},
			{"location.state": re},
			{"location.name": re},
		}})
	}

	if criteria.MaxPrice > 0 {
		clauses = append(clauses, bson.M{"price": bson.M{"$lte": criteria.MaxPrice}})
	}

	filter := bson.M{}
	if len(clauses) > 0 {
		filter = bson.M{"$and": clauses}
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "startDate", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
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
