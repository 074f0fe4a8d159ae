package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadrover06/MAD-MACEDAI/models"
)

// LoyaltyRepository manages registered customers and their points.
type LoyaltyRepository struct {
	collection *mongo.Collection
}

func NewLoyaltyRepository(db *mongo.Database) *LoyaltyRepository {
	return &LoyaltyRepository{collection: db.Collection("loyalty_customers")}
}

func (r *LoyaltyRepository) FindAll(ctx context.Context) ([]models.LoyaltyCustomer, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]models.LoyaltyCustomer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *LoyaltyRepository) Insert(ctx context.Context, customer *models.LoyaltyCustomer) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// FindMatch looks for a customer whose name matches and who has a car
// with the given plate number, both case-insensitively on trimmed
// values. Returns nil without error when nobody matches; accrual is
// silently skipped in that case.
func (r *LoyaltyRepository) FindMatch(ctx context.Context, customerName, plateNumber string) (*models.LoyaltyCustomer, error) {
	name := strings.ToLower(strings.TrimSpace(customerName))
	plate := strings.ToLower(strings.TrimSpace(plateNumber))
	if name == "" || plate == "" {
		return nil, nil
	}

	customers, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if strings.ToLower(strings.TrimSpace(customers[i].Name)) != name {
			continue
		}
		for _, car := range customers[i].Cars {
			if strings.ToLower(strings.TrimSpace(car.PlateNumber)) == plate {
				return &customers[i], nil
			}
		}
	}
	return nil, nil
}

// IncrementPoints atomically adds delta to a customer's points.
func (r *LoyaltyRepository) IncrementPoints(ctx context.Context, id primitive.ObjectID, delta float64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"points": delta}})
	return err
}
