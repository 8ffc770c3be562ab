package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
)

// upsertCartItemPipeline keeps a live line and increments it, or resets an
// expired or missing one to the given quantity with a fresh addedAt.
func upsertCartItemPipeline(param repository.UpsertCartItemParams, now, cutoff interface{}) mongo.Pipeline {
	live := bson.D{{Key: "$gt", Value: bson.A{"$addedAt", cutoff}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$cond", Value: bson.A{
				live,
				bson.D{{Key: "$add", Value: bson.A{"$quantity", param.Quantity}}},
				param.Quantity,
			}}}},
			{Key: "addedAt", Value: bson.D{{Key: "$cond", Value: bson.A{live, "$addedAt", now}}}},
			{Key: "createdAt", Value: bson.D{{Key: "$cond", Value: bson.A{live, "$createdAt", now}}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}

func (s *Store) UpsertCartItem(
	c context.Context,
	param repository.UpsertCartItemParams,
) (repository.CartItem, error) {
	productID, ok := objectID(param.ProductID)
	if !ok {
		return repository.CartItem{}, inErrors.ErrProductNotFound
	}

	now := s.now().UTC()
	filter := bson.D{{Key: "sessionId", Value: param.SessionID}, {Key: "productId", Value: productID}}
	update := upsertCartItemPipeline(param, now, repository.Cutoff(now, s.ttl))
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	doc := cartItemDocument{}
	err := s.carts.FindOneAndUpdate(c, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// lost an insert race against the unique index, the row exists now
		err = s.carts.FindOneAndUpdate(c, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return repository.CartItem{}, fmt.Errorf("failed upserting cart item with error=%w", err)
	}
	return doc.model(), nil
}

func (s *Store) liveFilter(sessionID string) bson.D {
	cutoff := repository.Cutoff(s.now().UTC(), s.ttl)
	return bson.D{
		{Key: "sessionId", Value: sessionID},
		{Key: "addedAt", Value: bson.D{{Key: "$gt", Value: cutoff}}},
	}
}

func (s *Store) FindCartItems(
	c context.Context,
	param repository.FindCartItemsParams,
) ([]repository.CartItemWithProduct, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: s.liveFilter(param.SessionID)}},
		{{Key: "$sort", Value: bson.D{{Key: "addedAt", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	if param.Offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: param.Offset}})
	}
	if param.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: param.Limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: COLLECTION_PRODUCTS},
			{Key: "localField", Value: "productId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "productDetails"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$productDetails"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: COLLECTION_CATEGORIES},
			{Key: "localField", Value: "productDetails.category"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "productDetails.categoryDetails"},
		}}},
	)

	cursor, err := s.carts.Aggregate(c, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed aggregating cart items with error=%w", err)
	}
	docs := []cartItemDocument{}
	if err = cursor.All(c, &docs); err != nil {
		return nil, fmt.Errorf("failed decoding cart items with error=%w", err)
	}

	items := make([]repository.CartItemWithProduct, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.withProduct())
	}
	return items, nil
}

func (s *Store) CountCartItems(c context.Context, sessionID string) (int64, error) {
	count, err := s.carts.CountDocuments(c, s.liveFilter(sessionID))
	if err != nil {
		return 0, fmt.Errorf("failed counting cart items with error=%w", err)
	}
	return count, nil
}

func (s *Store) SumCartQuantity(c context.Context, sessionID string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: s.liveFilter(sessionID)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalItems", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
	}
	cursor, err := s.carts.Aggregate(c, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed summing cart quantity with error=%w", err)
	}
	defer cursor.Close(c)

	if !cursor.Next(c) {
		if err = cursor.Err(); err != nil {
			return 0, fmt.Errorf("failed reading cart quantity with error=%w", err)
		}
		return 0, nil
	}
	result := struct {
		TotalItems int64 `bson:"totalItems"`
	}{}
	if err = cursor.Decode(&result); err != nil {
		return 0, fmt.Errorf("failed decoding cart quantity with error=%w", err)
	}
	return result.TotalItems, nil
}

func (s *Store) DeleteCartItems(c context.Context, sessionID string) (int64, error) {
	result, err := s.carts.DeleteMany(c, bson.D{{Key: "sessionId", Value: sessionID}})
	if err != nil {
		return 0, fmt.Errorf("failed deleting cart items with error=%w", err)
	}
	return result.DeletedCount, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
