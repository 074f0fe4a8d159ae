package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChemicalUsage describes how much of a chemical one wash of a given
// variety consumes. Keys of the Usage map are variety keys; a missing
// key means the chemical is not used for that variety.
type ChemicalUsage struct {
	Name  string             `json:"name" bson:"name"`
	Usage map[string]float64 `json:"usage" bson:"usage"`
}

// Service is a catalog entry. Prices maps variety key to the price of
// the service at that size tier; a variety missing from the map means
// the service is not offered at that tier (not that it is free).
// Chemicals maps chemical document id (hex) to its per-variety usage.
type Service struct {
	ID          primitive.ObjectID       `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string                   `json:"name" bson:"name"`
	Description string                   `json:"description,omitempty" bson:"description,omitempty"`
	Prices      map[string]float64       `json:"prices" bson:"prices"`
	Chemicals   map[string]ChemicalUsage `json:"chemicals,omitempty" bson:"chemicals,omitempty"`
	CreatedAt   time.Time                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt" bson:"updatedAt"`
}

// ServiceRequest model for creating or updating a catalog entry
type ServiceRequest struct {
	Name        string                   `json:"name" validate:"required"`
	Description string                   `json:"description,omitempty"`
	Prices      map[string]float64       `json:"prices" validate:"required"`
	Chemicals   map[string]ChemicalUsage `json:"chemicals,omitempty"`
}

// Chemical is a stock document decremented when a paid service
// consumes it. Stock bookkeeping is best effort; see the post-payment
// runner.
type Chemical struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Stock     float64            `json:"stock" bson:"stock"`
	Unit      string             `json:"unit,omitempty" bson:"unit,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
