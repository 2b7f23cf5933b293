// File: database/repository/villa/villaMongoCrud.go
package villaRepo

import (
	"fmt"
	"time"

	"villamar/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new villa document.
func (r *MongoVillaRepo) Create(villa *models.Villa) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	villa.CreatedAt = now
	villa.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, villa)
	if err != nil {
		return fmt.Errorf("failed to create villa: %w", err)
	}
	return nil
}

// Update modifies an existing villa document.
func (r *MongoVillaRepo) Update(villa *models.Villa) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	villa.UpdatedAt = time.Now()
	filter := bson.M{"id": villa.ID}
	update := bson.M{"$set": villa}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update villa with id %s: %w", villa.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrVillaNotFound
	}
	return nil
}

// SetActive toggles whether a villa is bookable. Retired villas keep their
// document so historical bookings still resolve.
func (r *MongoVillaRepo) SetActive(id string, active bool) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set active for villa %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrVillaNotFound
	}
	return nil
}

// AddImage appends a storage public ID to the villa's gallery.
func (r *MongoVillaRepo) AddImage(id, publicID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"images": publicID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to add image to villa %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrVillaNotFound
	}
	return nil
}
