package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Alturino/storefront/internal/repository"
)

type Store struct {
	carts      *mongo.Collection
	products   *mongo.Collection
	categories *mongo.Collection
	ttl        time.Duration
	now        repository.Clock
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *mongo.Database, ttl time.Duration, clock repository.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		carts:      db.Collection(COLLECTION_CARTS),
		products:   db.Collection(COLLECTION_PRODUCTS),
		categories: db.Collection(COLLECTION_CATEGORIES),
		ttl:        ttl,
		now:        clock,
	}
}

// EnsureIndexes creates the cart expiry index on addedAt, the unique
// (sessionId, productId) index and the product category index.
func (s *Store) EnsureIndexes(c context.Context) error {
	_, err := s.carts.Indexes().CreateMany(c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "addedAt", Value: 1}},
			Options: options.Index().SetName("addedAt_ttl").SetExpireAfterSeconds(int32(s.ttl.Seconds())),
		},
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "productId", Value: 1}},
			Options: options.Index().SetName("sessionId_productId_unique").SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed creating cart indexes with error=%w", err)
	}

	_, err = s.products.Indexes().CreateOne(c, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("category"),
	})
	if err != nil {
		return fmt.Errorf("failed creating product indexes with error=%w", err)
	}
	return nil
}
