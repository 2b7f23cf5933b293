// File: database/repository/villa/villa_mongo.go
package villaRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"villamar/config"
	"villamar/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrVillaNotFound is returned when no villa matches the given key.
var ErrVillaNotFound = errors.New("villa not found")

// MongoVillaRepo implements VillaRepository using MongoDB.
type MongoVillaRepo struct {
	coll *mongo.Collection
}

// NewMongoVillaRepo creates a new instance of VillaRepository using MongoDB.
func NewMongoVillaRepo() VillaRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("villas")
	repo := &MongoVillaRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoVillaRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "destination", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
