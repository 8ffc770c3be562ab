package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
)

var lookupCategory = bson.D{{Key: "$lookup", Value: bson.D{
	{Key: "from", Value: COLLECTION_CATEGORIES},
	{Key: "localField", Value: "category"},
	{Key: "foreignField", Value: "_id"},
	{Key: "as", Value: "categoryDetails"},
}}}

var sortByCreation = bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}}

func (s *Store) aggregateProducts(c context.Context, pipeline mongo.Pipeline) ([]repository.Product, error) {
	cursor, err := s.products.Aggregate(c, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed aggregating products with error=%w", err)
	}
	docs := []productDocument{}
	if err = cursor.All(c, &docs); err != nil {
		return nil, fmt.Errorf("failed decoding products with error=%w", err)
	}
	products := make([]repository.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.model())
	}
	return products, nil
}

func (s *Store) InsertProduct(
	c context.Context,
	param repository.InsertProductParams,
) (repository.Product, error) {
	categoryID, ok := objectID(param.CategoryID)
	if !ok {
		return repository.Product{}, inErrors.ErrUnknownCategory
	}
	price, err := toDecimal128(param.Price)
	if err != nil {
		return repository.Product{}, fmt.Errorf("failed converting price with error=%w", err)
	}

	now := s.now().UTC()
	doc := productDocument{
		ID:            primitive.NewObjectID(),
		Name:          param.Name,
		Description:   param.Description,
		Price:         price,
		Category:      categoryID,
		Image:         param.Image,
		Units:         param.Units,
		IsBestSelling: param.IsBestSelling,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err = s.products.InsertOne(c, doc); err != nil {
		return repository.Product{}, fmt.Errorf("failed inserting product with error=%w", err)
	}
	return s.FindProductById(c, doc.ID.Hex())
}

func (s *Store) FindProducts(c context.Context) ([]repository.Product, error) {
	return s.aggregateProducts(c, mongo.Pipeline{sortByCreation, lookupCategory})
}

func (s *Store) FindProductsPage(
	c context.Context,
	offset int64,
	limit int64,
) ([]repository.Product, error) {
	return s.aggregateProducts(c, mongo.Pipeline{
		sortByCreation,
		{{Key: "$skip", Value: offset}},
		{{Key: "$limit", Value: limit}},
		lookupCategory,
	})
}

func (s *Store) FindProductById(c context.Context, id string) (repository.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	products, err := s.aggregateProducts(c, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
		lookupCategory,
	})
	if err != nil {
		return repository.Product{}, err
	}
	if len(products) == 0 {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	return products[0], nil
}

func (s *Store) FindProductsByIds(c context.Context, ids []string) ([]repository.Product, error) {
	oids := make(bson.A, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []repository.Product{}, nil
	}
	return s.aggregateProducts(c, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}}}},
		sortByCreation,
		lookupCategory,
	})
}

func (s *Store) FindProductsByCategoryId(
	c context.Context,
	categoryID string,
) ([]repository.Product, error) {
	oid, ok := objectID(categoryID)
	if !ok {
		return []repository.Product{}, nil
	}
	return s.aggregateProducts(c, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "category", Value: oid}}}},
		sortByCreation,
		lookupCategory,
	})
}

func (s *Store) CountProducts(c context.Context) (int64, error) {
	count, err := s.products.CountDocuments(c, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed counting products with error=%w", err)
	}
	return count, nil
}

func (s *Store) UpdateProduct(
	c context.Context,
	param repository.UpdateProductParams,
) (repository.Product, error) {
	oid, ok := objectID(param.ID)
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}

	set := bson.D{{Key: "updatedAt", Value: s.now().UTC()}}
	if param.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *param.Name})
	}
	if param.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *param.Description})
	}
	if param.Price != nil {
		price, err := toDecimal128(*param.Price)
		if err != nil {
			return repository.Product{}, fmt.Errorf("failed converting price with error=%w", err)
		}
		set = append(set, bson.E{Key: "price", Value: price})
	}
	if param.CategoryID != nil {
		categoryID, ok := objectID(*param.CategoryID)
		if !ok {
			return repository.Product{}, inErrors.ErrUnknownCategory
		}
		set = append(set, bson.E{Key: "category", Value: categoryID})
	}
	if param.Image != nil {
		set = append(set, bson.E{Key: "image", Value: *param.Image})
	}
	if param.Units != nil {
		set = append(set, bson.E{Key: "units", Value: *param.Units})
	}
	if param.IsBestSelling != nil {
		set = append(set, bson.E{Key: "isBestSelling", Value: *param.IsBestSelling})
	}

	result, err := s.products.UpdateByID(c, oid, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return repository.Product{}, fmt.Errorf("failed updating product with error=%w", err)
	}
	if result.MatchedCount == 0 {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	return s.FindProductById(c, param.ID)
}

func (s *Store) DeleteProduct(c context.Context, id string) (repository.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	doc := productDocument{}
	err := s.products.FindOneAndDelete(c, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if isNotFound(err) {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	if err != nil {
		return repository.Product{}, fmt.Errorf("failed deleting product with error=%w", err)
	}
	return doc.model(), nil
}

func (s *Store) ProductExists(c context.Context, id string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}
	count, err := s.products.CountDocuments(c, bson.D{{Key: "_id", Value: oid}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed checking product existence with error=%w", err)
	}
	return count > 0, nil
}

func (s *Store) InsertCategory(
	c context.Context,
	param repository.InsertCategoryParams,
) (repository.Category, error) {
	now := s.now().UTC()
	doc := categoryDocument{
		ID:          primitive.NewObjectID(),
		Name:        param.Name,
		Description: param.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.categories.InsertOne(c, doc); err != nil {
		return repository.Category{}, fmt.Errorf("failed inserting category with error=%w", err)
	}
	return doc.model(), nil
}

func (s *Store) FindCategories(c context.Context) ([]repository.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.categories.Find(c, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed finding categories with error=%w", err)
	}
	docs := []categoryDocument{}
	if err = cursor.All(c, &docs); err != nil {
		return nil, fmt.Errorf("failed decoding categories with error=%w", err)
	}
	categories := make([]repository.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, doc.model())
	}
	return categories, nil
}

func (s *Store) FindCategoryById(c context.Context, id string) (repository.Category, error) {
	oid, ok := objectID(id)
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	doc := categoryDocument{}
	err := s.categories.FindOne(c, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if isNotFound(err) {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	if err != nil {
		return repository.Category{}, fmt.Errorf("failed finding category with error=%w", err)
	}
	return doc.model(), nil
}

func (s *Store) CategoryExists(c context.Context, id string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}
	count, err := s.categories.CountDocuments(c, bson.D{{Key: "_id", Value: oid}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed checking category existence with error=%w", err)
	}
	return count > 0, nil
}

func (s *Store) UpdateCategory(
	c context.Context,
	param repository.UpdateCategoryParams,
) (repository.Category, error) {
	oid, ok := objectID(param.ID)
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	set := bson.D{{Key: "updatedAt", Value: s.now().UTC()}}
	if param.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *param.Name})
	}
	if param.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *param.Description})
	}

	doc := categoryDocument{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.categories.FindOneAndUpdate(c, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).
		Decode(&doc)
	if isNotFound(err) {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	if err != nil {
		return repository.Category{}, fmt.Errorf("failed updating category with error=%w", err)
	}
	return doc.model(), nil
}

func (s *Store) DeleteCategory(c context.Context, id string) (repository.Category, error) {
	oid, ok := objectID(id)
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	doc := categoryDocument{}
	err := s.categories.FindOneAndDelete(c, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if isNotFound(err) {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	if err != nil {
		return repository.Category{}, fmt.Errorf("failed deleting category with error=%w", err)
	}
	return doc.model(), nil
}
