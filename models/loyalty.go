package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoyaltyCar is a registered vehicle of a loyalty customer.
type LoyaltyCar struct {
	CarName     string `json:"carName" bson:"carName"`
	PlateNumber string `json:"plateNumber" bson:"plateNumber"`
}

// LoyaltyCustomer is a registered customer accruing points. Points are
// added when a paid transaction matches the customer's name and one of
// their plate numbers, case-insensitively.
type LoyaltyCustomer struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Cars      []LoyaltyCar       `json:"cars" bson:"cars"`
	Points    float64            `json:"points" bson:"points"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// LoyaltyCustomerRequest model
type LoyaltyCustomerRequest struct {
	Name string       `json:"name" validate:"required"`
	Cars []LoyaltyCar `json:"cars" validate:"required,min=1,dive"`
}
