package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
)

func (s *Store) withCategory(product repository.Product) repository.Product {
	if category, ok := s.categories[product.CategoryID]; ok {
		product.Category = &category
	} else {
		product.Category = nil
	}
	return product
}

func (s *Store) sortedProducts(match func(repository.Product) bool) []repository.Product {
	products := []repository.Product{}
	for _, product := range s.products {
		if match == nil || match(product) {
			products = append(products, s.withCategory(product))
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products
}

func (s *Store) InsertProduct(
	c context.Context,
	param repository.InsertProductParams,
) (repository.Product, error) {
	if err := c.Err(); err != nil {
		return repository.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	product := repository.Product{
		ID:            uuid.NewString(),
		Name:          param.Name,
		Description:   param.Description,
		Price:         param.Price,
		CategoryID:    param.CategoryID,
		Image:         param.Image,
		Units:         param.Units,
		IsBestSelling: param.IsBestSelling,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.products[product.ID] = product
	return s.withCategory(product), nil
}

func (s *Store) FindProducts(c context.Context) ([]repository.Product, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedProducts(nil), nil
}

func (s *Store) FindProductsPage(
	c context.Context,
	offset int64,
	limit int64,
) ([]repository.Product, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := s.sortedProducts(nil)
	start := min(max(offset, 0), int64(len(products)))
	end := start + min(max(limit, 0), int64(len(products))-start)
	return products[start:end], nil
}

func (s *Store) FindProductById(c context.Context, id string) (repository.Product, error) {
	if err := c.Err(); err != nil {
		return repository.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	return s.withCategory(product), nil
}

func (s *Store) FindProductsByIds(c context.Context, ids []string) ([]repository.Product, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return s.sortedProducts(func(p repository.Product) bool {
		_, ok := wanted[p.ID]
		return ok
	}), nil
}

func (s *Store) FindProductsByCategoryId(
	c context.Context,
	categoryID string,
) ([]repository.Product, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedProducts(func(p repository.Product) bool {
		return p.CategoryID == categoryID
	}), nil
}

func (s *Store) CountProducts(c context.Context) (int64, error) {
	if err := c.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *Store) UpdateProduct(
	c context.Context,
	param repository.UpdateProductParams,
) (repository.Product, error) {
	if err := c.Err(); err != nil {
		return repository.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[param.ID]
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	if param.Name != nil {
		product.Name = *param.Name
	}
	if param.Description != nil {
		product.Description = *param.Description
	}
	if param.Price != nil {
		product.Price = *param.Price
	}
	if param.CategoryID != nil {
		product.CategoryID = *param.CategoryID
	}
	if param.Image != nil {
		product.Image = *param.Image
	}
	if param.Units != nil {
		product.Units = *param.Units
	}
	if param.IsBestSelling != nil {
		product.IsBestSelling = *param.IsBestSelling
	}
	product.UpdatedAt = s.now()
	s.products[product.ID] = product
	return s.withCategory(product), nil
}

func (s *Store) DeleteProduct(c context.Context, id string) (repository.Product, error) {
	if err := c.Err(); err != nil {
		return repository.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	delete(s.products, id)
	return product, nil
}

func (s *Store) ProductExists(c context.Context, id string) (bool, error) {
	if err := c.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.products[id]
	return ok, nil
}

func (s *Store) InsertCategory(
	c context.Context,
	param repository.InsertCategoryParams,
) (repository.Category, error) {
	if err := c.Err(); err != nil {
		return repository.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	category := repository.Category{
		ID:          uuid.NewString(),
		Name:        param.Name,
		Description: param.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.categories[category.ID] = category
	return category, nil
}

func (s *Store) FindCategories(c context.Context) ([]repository.Category, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]repository.Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return categories, nil
}

func (s *Store) FindCategoryById(c context.Context, id string) (repository.Category, error) {
	if err := c.Err(); err != nil {
		return repository.Category{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	return category, nil
}

func (s *Store) CategoryExists(c context.Context, id string) (bool, error) {
	if err := c.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.categories[id]
	return ok, nil
}

func (s *Store) UpdateCategory(
	c context.Context,
	param repository.UpdateCategoryParams,
) (repository.Category, error) {
	if err := c.Err(); err != nil {
		return repository.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[param.ID]
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	if param.Name != nil {
		category.Name = *param.Name
	}
	if param.Description != nil {
		category.Description = *param.Description
	}
	category.UpdatedAt = s.now()
	s.categories[category.ID] = category
	return category, nil
}

func (s *Store) DeleteCategory(c context.Context, id string) (repository.Category, error) {
	if err := c.Err(); err != nil {
		return repository.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return category, nil
}
