package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChemicalRepository is the inventory store. The only operation the POS
// needs is the atomic stock decrement applied after a paid wash.
type ChemicalRepository struct {
	collection *mongo.Collection
}

func NewChemicalRepository(db *mongo.Database) *ChemicalRepository {
	return &ChemicalRepository{collection: db.Collection("chemicals")}
}

// DecrementStock atomically subtracts amount from a chemical's stock.
// The id comes from the catalog's chemicals map, which stores document
// ids as hex strings.
func (r *ChemicalRepository) DecrementStock(ctx context.Context, chemicalID string, amount float64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var filter bson.M
	if oid, err := primitive.ObjectIDFromHex(chemicalID); err == nil {
		filter = bson.M{"_id": oid}
	} else {
		// Legacy documents imported with string ids.
		filter = bson.M{"_id": chemicalID}
	}

	update := bson.M{
		"$inc": bson.M{"stock": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
