package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roadrover06/MAD-MACEDAI/models"
)

const (
	catalogCacheKey = "catalog:services"
	catalogCacheTTL = 60 * time.Second
)

// CatalogRepository reads and writes the service catalog. The full
// snapshot is cached in Redis for a short TTL since every POS action
// re-reads it; writes invalidate the cache. Redis being down only
// disables the cache, it never fails a request.
type CatalogRepository struct {
	collection *mongo.Collection
	cache      *redis.Client
}

func NewCatalogRepository(db *mongo.Database, cache *redis.Client) *CatalogRepository {
	return &CatalogRepository{
		collection: db.Collection("services"),
		cache:      cache,
	}
}

// FindAll returns the catalog snapshot, cache first.
func (r *CatalogRepository) FindAll(ctx context.Context) ([]models.Service, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, catalogCacheKey).Result()
		if err == nil {
			var services []models.Service
			if err := json.Unmarshal([]byte(cached), &services); err == nil {
				return services, nil
			}
		} else if err != redis.Nil {
			log.Printf("Catalog cache read failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	services := make([]models.Service, 0)
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}

	if r.cache != nil {
		if encoded, err := json.Marshal(services); err == nil {
			if err := r.cache.Set(ctx, catalogCacheKey, encoded, catalogCacheTTL).Err(); err != nil {
				log.Printf("Catalog cache write failed: %v", err)
			}
		}
	}
	return services, nil
}

func (r *CatalogRepository) Insert(ctx context.Context, service *models.Service) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, service)
	if err != nil {
		return primitive.NilObjectID, err
	}
	r.invalidate(ctx)
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *CatalogRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *CatalogRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *CatalogRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, catalogCacheKey).Err(); err != nil {
		log.Printf("Catalog cache invalidation failed: %v", err)
	}
}
