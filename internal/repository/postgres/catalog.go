package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
)

const selectProducts = `
SELECT p.id, p.name, p.description, p.price, p.category_id, p.image, p.units, p.is_best_selling,
    p.created_at, p.updated_at,
    c.id, c.name, c.description, c.created_at, c.updated_at
FROM products p
LEFT JOIN categories c ON c.id = p.category_id`

const orderProducts = ` ORDER BY p.created_at, p.id`

const insertProduct = `
INSERT INTO products (id, name, description, price, category_id, image, units, is_best_selling, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

const updateProduct = `
UPDATE products SET
    name = COALESCE($2, name),
    description = COALESCE($3, description),
    price = COALESCE($4, price),
    category_id = COALESCE($5, category_id),
    image = COALESCE($6, image),
    units = COALESCE($7, units),
    is_best_selling = COALESCE($8, is_best_selling),
    updated_at = $9
WHERE id = $1`

const deleteProduct = `
DELETE FROM products WHERE id = $1
RETURNING id, name, description, price, category_id, image, units, is_best_selling, created_at, updated_at,
    NULL::uuid, NULL::text, NULL::text, NULL::timestamptz, NULL::timestamptz`

const insertCategory = `
INSERT INTO categories (id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING id, name, description, created_at, updated_at`

const selectCategories = `SELECT id, name, description, created_at, updated_at FROM categories`

const updateCategory = `
UPDATE categories SET
    name = COALESCE($2, name),
    description = COALESCE($3, description),
    updated_at = $4
WHERE id = $1
RETURNING id, name, description, created_at, updated_at`

const deleteCategory = `
DELETE FROM categories WHERE id = $1
RETURNING id, name, description, created_at, updated_at`

func (s *Store) queryProducts(c context.Context, query string, args ...any) ([]repository.Product, error) {
	rows, err := s.pool.Query(c, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed querying products with error=%w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Product, error) {
		product := productRow{}
		if err := row.Scan(product.targets()...); err != nil {
			return repository.Product{}, err
		}
		return *product.model(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed scanning products with error=%w", err)
	}
	return products, nil
}

func (s *Store) InsertProduct(
	c context.Context,
	param repository.InsertProductParams,
) (repository.Product, error) {
	categoryID, ok := parseID(param.CategoryID)
	if !ok {
		return repository.Product{}, inErrors.ErrUnknownCategory
	}
	id := uuid.New()
	_, err := s.pool.Exec(
		c,
		insertProduct,
		id,
		param.Name,
		param.Description,
		toNumeric(param.Price),
		categoryID,
		param.Image,
		param.Units,
		param.IsBestSelling,
		s.now(),
	)
	if err != nil {
		return repository.Product{}, fmt.Errorf("failed inserting product with error=%w", err)
	}
	return s.FindProductById(c, id.String())
}

func (s *Store) FindProducts(c context.Context) ([]repository.Product, error) {
	return s.queryProducts(c, selectProducts+orderProducts)
}

func (s *Store) FindProductsPage(
	c context.Context,
	offset int64,
	limit int64,
) ([]repository.Product, error) {
	return s.queryProducts(c, selectProducts+orderProducts+` OFFSET $1 LIMIT $2`, offset, limit)
}

func (s *Store) FindProductById(c context.Context, id string) (repository.Product, error) {
	parsed, ok := parseID(id)
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	products, err := s.queryProducts(c, selectProducts+` WHERE p.id = $1`, parsed)
	if err != nil {
		return repository.Product{}, err
	}
	if len(products) == 0 {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	return products[0], nil
}

func (s *Store) FindProductsByIds(c context.Context, ids []string) ([]repository.Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if parsed, ok := parseID(id); ok {
			valid = append(valid, parsed.String())
		}
	}
	if len(valid) == 0 {
		return []repository.Product{}, nil
	}
	return s.queryProducts(c, selectProducts+` WHERE p.id::text = ANY($1::text[])`+orderProducts, valid)
}

func (s *Store) FindProductsByCategoryId(
	c context.Context,
	categoryID string,
) ([]repository.Product, error) {
	parsed, ok := parseID(categoryID)
	if !ok {
		return []repository.Product{}, nil
	}
	return s.queryProducts(c, selectProducts+` WHERE p.category_id = $1`+orderProducts, parsed)
}

func (s *Store) CountProducts(c context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(c, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed counting products with error=%w", err)
	}
	return count, nil
}

func (s *Store) UpdateProduct(
	c context.Context,
	param repository.UpdateProductParams,
) (repository.Product, error) {
	id, ok := parseID(param.ID)
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}

	var categoryID *uuid.UUID
	if param.CategoryID != nil {
		parsed, ok := parseID(*param.CategoryID)
		if !ok {
			return repository.Product{}, inErrors.ErrUnknownCategory
		}
		categoryID = &parsed
	}
	price := pgtype.Numeric{}
	if param.Price != nil {
		price = toNumeric(*param.Price)
	}

	tag, err := s.pool.Exec(
		c,
		updateProduct,
		id,
		param.Name,
		param.Description,
		price,
		categoryID,
		param.Image,
		param.Units,
		param.IsBestSelling,
		s.now(),
	)
	if err != nil {
		return repository.Product{}, fmt.Errorf("failed updating product with error=%w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	return s.FindProductById(c, param.ID)
}

func (s *Store) DeleteProduct(c context.Context, id string) (repository.Product, error) {
	parsed, ok := parseID(id)
	if !ok {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	product := productRow{}
	err := s.pool.QueryRow(c, deleteProduct, parsed).Scan(product.targets()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.Product{}, inErrors.ErrProductNotFound
	}
	if err != nil {
		return repository.Product{}, fmt.Errorf("failed deleting product with error=%w", err)
	}
	return *product.model(), nil
}

func (s *Store) ProductExists(c context.Context, id string) (bool, error) {
	parsed, ok := parseID(id)
	if !ok {
		return false, nil
	}
	var exists bool
	err := s.pool.QueryRow(c, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, parsed).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed checking product existence with error=%w", err)
	}
	return exists, nil
}

func scanCategory(row pgx.Row) (repository.Category, error) {
	category := categoryRow{}
	if err := row.Scan(category.targets()...); err != nil {
		return repository.Category{}, err
	}
	return *category.model(), nil
}

func (s *Store) InsertCategory(
	c context.Context,
	param repository.InsertCategoryParams,
) (repository.Category, error) {
	category, err := scanCategory(
		s.pool.QueryRow(c, insertCategory, uuid.New(), param.Name, param.Description, s.now()),
	)
	if err != nil {
		return repository.Category{}, fmt.Errorf("failed inserting category with error=%w", err)
	}
	return category, nil
}

func (s *Store) FindCategories(c context.Context) ([]repository.Category, error) {
	rows, err := s.pool.Query(c, selectCategories+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed querying categories with error=%w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed scanning categories with error=%w", err)
	}
	return categories, nil
}

func (s *Store) FindCategoryById(c context.Context, id string) (repository.Category, error) {
	parsed, ok := parseID(id)
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	category, err := scanCategory(s.pool.QueryRow(c, selectCategories+` WHERE id = $1`, parsed))
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	if err != nil {
		return repository.Category{}, fmt.Errorf("failed finding category with error=%w", err)
	}
	return category, nil
}

func (s *Store) CategoryExists(c context.Context, id string) (bool, error) {
	parsed, ok := parseID(id)
	if !ok {
		return false, nil
	}
	var exists bool
	err := s.pool.QueryRow(c, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, parsed).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed checking category existence with error=%w", err)
	}
	return exists, nil
}

func (s *Store) UpdateCategory(
	c context.Context,
	param repository.UpdateCategoryParams,
) (repository.Category, error) {
	parsed, ok := parseID(param.ID)
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	category, err := scanCategory(
		s.pool.QueryRow(c, updateCategory, parsed, param.Name, param.Description, s.now()),
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	if err != nil {
		return repository.Category{}, fmt.Errorf("failed updating category with error=%w", err)
	}
	return category, nil
}

func (s *Store) DeleteCategory(c context.Context, id string) (repository.Category, error) {
	parsed, ok := parseID(id)
	if !ok {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	category, err := scanCategory(s.pool.QueryRow(c, deleteCategory, parsed))
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.Category{}, inErrors.ErrCategoryNotFound
	}
	if err != nil {
		return repository.Category{}, fmt.Errorf("failed deleting category with error=%w", err)
	}
	return category, nil
}
