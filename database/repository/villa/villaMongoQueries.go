// File: database/repository/villa/villaMongoQueries.go
package villaRepo

import (
	"fmt"
	"time"

	"villamar/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoVillaRepo) findOne(filter bson.M) (*models.Villa, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var villa models.Villa
	if err := r.coll.FindOne(ctx, filter).Decode(&villa); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVillaNotFound
		}
		return nil, fmt.Errorf("failed to fetch villa: %w", err)
	}
	return &villa, nil
}

// GetByID retrieves a villa by its unique ID.
func (r *MongoVillaRepo) GetByID(id string) (*models.Villa, error) {
	return r.findOne(bson.M{"id": id})
}

// GetBySlug retrieves a villa by its URL slug.
func (r *MongoVillaRepo) GetBySlug(slug string) (*models.Villa, error) {
	return r.findOne(bson.M{"slug": slug})
}

// List returns active villa summaries, optionally narrowed to a destination
// or to featured properties.
func (r *MongoVillaRepo) List(destination string, featuredOnly bool) ([]models.VillaSummary, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	query := bson.M{"active": true}
	if destination != "" {
		query["destination"] = destination
	}
	if featuredOnly {
		query["featured"] = true
	}

	projection := bson.M{
		"id": 1, "slug": 1, "name": 1, "destination": 1, "bedrooms": 1,
		"max_guests": 1, "price_per_night": 1, "currency": 1, "images": 1, "featured": 1,
	}
	opts := options.Find().SetProjection(projection).SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list villas: %w", err)
	}
	defer cursor.Close(ctx)

	var villas []models.VillaSummary
	for cursor.Next(ctx) {
		var v models.VillaSummary
		if err := cursor.Decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode villa: %w", err)
		}
		villas = append(villas, v)
	}
	return villas, nil
}
