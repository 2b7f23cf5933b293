// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"fmt"
	"time"

	"villamar/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoBookingRepo) findOne(filter bson.M) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	return r.findOne(bson.M{"id": id})
}

// GetByProviderSession retrieves a booking by the payment provider's session ID.
func (r *MongoBookingRepo) GetByProviderSession(providerSessionID string) (*models.Booking, error) {
	return r.findOne(bson.M{"provider_session_id": providerSessionID})
}

// GetByReference retrieves a booking by its human-facing reference.
func (r *MongoBookingRepo) GetByReference(reference string) (*models.Booking, error) {
	return r.findOne(bson.M{"reference": reference})
}

// List returns bookings matching the filter, newest first.
func (r *MongoBookingRepo) List(filter models.BookingFilter) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["booking_status"] = filter.Status
	}
	if filter.VillaID != "" {
		query["villa_id"] = filter.VillaID
	}
	// Check-in dates are stored as "YYYY-MM-DD", so lexicographic range
	// comparisons are date comparisons.
	checkInRange := bson.M{}
	if filter.FromDate != "" {
		checkInRange["$gte"] = filter.FromDate
	}
	if filter.ToDate != "" {
		checkInRange["$lte"] = filter.ToDate
	}
	if len(checkInRange) > 0 {
		query["check_in"] = checkInRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// CountByStatus aggregates booking counts per status for the admin dashboard.
func (r *MongoBookingRepo) CountByStatus() (map[models.BookingStatus]int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$booking_status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.BookingStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status models.BookingStatus `bson:"_id"`
			Count  int64                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode booking count: %w", err)
		}
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountOverlapping counts active bookings for the villa whose stay intersects
// the half-open range [checkIn, checkOut).
func (r *MongoBookingRepo) CountOverlapping(villaID, checkIn, checkOut string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"villa_id": villaID,
		"booking_status": bson.M{"$in": []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusConfirmed,
			models.BookingStatusDepositReceived,
		}},
		"check_in":  bson.M{"$lt": checkOut},
		"check_out": bson.M{"$gt": checkIn},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}
