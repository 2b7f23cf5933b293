package models

import "time"

// Villa is a bookable property in the catalog. The booking flow treats the
// stored PricePerNight and DepositPercentage as the pricing authority; totals
// quoted by clients are never trusted.
type Villa struct {
	ID                string    `bson:"id" json:"id"`
	Slug              string    `bson:"slug" json:"slug"`
	Name              string    `bson:"name" json:"name"`
	Destination       string    `bson:"destination" json:"destination"`
	Description       string    `bson:"description" json:"description"`
	Bedrooms          int       `bson:"bedrooms" json:"bedrooms"`
	Bathrooms         int       `bson:"bathrooms" json:"bathrooms"`
	MaxGuests         int       `bson:"max_guests" json:"maxGuests"`
	PricePerNight     float64   `bson:"price_per_night" json:"pricePerNight"`
	Currency          string    `bson:"currency" json:"currency"`
	DepositPercentage int       `bson:"deposit_percentage" json:"depositPercentage"`
	Amenities         []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Images            []string  `bson:"images,omitempty" json:"images,omitempty"` // storage public IDs
	Featured          bool      `bson:"featured" json:"featured"`
	Active            bool      `bson:"active" json:"active"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updatedAt"`
}

// VillaSummary is the public listing projection.
type VillaSummary struct {
	ID            string   `bson:"id" json:"id"`
	Slug          string   `bson:"slug" json:"slug"`
	Name          string   `bson:"name" json:"name"`
	Destination   string   `bson:"destination" json:"destination"`
	Bedrooms      int      `bson:"bedrooms" json:"bedrooms"`
	MaxGuests     int      `bson:"max_guests" json:"maxGuests"`
	PricePerNight float64  `bson:"price_per_night" json:"pricePerNight"`
	Currency      string   `bson:"currency" json:"currency"`
	Images        []string `bson:"images,omitempty" json:"images,omitempty"`
	Featured      bool     `bson:"featured" json:"featured"`
}
