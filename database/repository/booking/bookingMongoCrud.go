// File: database/repository/booking/bookingMongoCrud.go
package bookingRepo

import (
	"fmt"
	"time"

	"villamar/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertByProviderSession inserts the booking keyed by its provider session ID.
// Replayed webhook deliveries match the existing document and insert nothing.
func (r *MongoBookingRepo) UpsertByProviderSession(booking *models.Booking) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	// BSON datetimes carry millisecond precision; keep timestamps exact so
	// the optimistic updated_at guard can match on equality.
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	filter := bson.M{"provider_session_id": booking.ProviderSessionID}
	update := bson.M{"$setOnInsert": booking}

	result, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert booking for provider session %s: %w", booking.ProviderSessionID, err)
	}
	return result.UpsertedCount == 1, nil
}

// UpdateStatusGuarded performs a single-row status update that only succeeds
// when the caller saw the latest version of the record.
func (r *MongoBookingRepo) UpdateStatusGuarded(id string, next models.BookingStatus, expectedUpdatedAt string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	expected, err := time.Parse(time.RFC3339Nano, expectedUpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updatedAt token %q: %w", expectedUpdatedAt, err)
	}

	filter := bson.M{"id": id, "updated_at": expected.UTC().Truncate(time.Millisecond)}
	update := bson.M{"$set": bson.M{
		"booking_status": next,
		"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
		}
		// Distinguish a missing booking from a lost guarded write.
		count, countErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if countErr != nil {
			return nil, fmt.Errorf("failed to update booking %s: %w", id, countErr)
		}
		if count == 0 {
			return nil, ErrBookingNotFound
		}
		return nil, ErrStaleBooking
	}
	return &updated, nil
}

// MarkReminderSent flags the booking once its pre-arrival reminder went out.
func (r *MongoBookingRepo) MarkReminderSent(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"reminder_sent": true,
		"updated_at":    time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent for booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}
