package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
)

const upsertCartItem = `
INSERT INTO cart_items (id, session_id, product_id, quantity, added_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5, $5)
ON CONFLICT (session_id, product_id) DO UPDATE SET
    quantity = CASE WHEN cart_items.added_at > $6
        THEN cart_items.quantity + EXCLUDED.quantity ELSE EXCLUDED.quantity END,
    added_at = CASE WHEN cart_items.added_at > $6
        THEN cart_items.added_at ELSE EXCLUDED.added_at END,
    created_at = CASE WHEN cart_items.added_at > $6
        THEN cart_items.created_at ELSE EXCLUDED.created_at END,
    updated_at = EXCLUDED.updated_at
RETURNING id, session_id, product_id, quantity, added_at, created_at, updated_at`

const findCartItems = `
SELECT ci.id, ci.session_id, ci.product_id, ci.quantity, ci.added_at, ci.created_at, ci.updated_at,
    p.id, p.name, p.description, p.price, p.category_id, p.image, p.units, p.is_best_selling,
    p.created_at, p.updated_at,
    c.id, c.name, c.description, c.created_at, c.updated_at
FROM cart_items ci
LEFT JOIN products p ON p.id = ci.product_id
LEFT JOIN categories c ON c.id = p.category_id
WHERE ci.session_id = $1 AND ci.added_at > $2
ORDER BY ci.added_at, ci.id
OFFSET $3
LIMIT $4`

const countCartItems = `SELECT COUNT(*) FROM cart_items WHERE session_id = $1 AND added_at > $2`

const sumCartQuantity = `
SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE session_id = $1 AND added_at > $2`

const deleteCartItems = `DELETE FROM cart_items WHERE session_id = $1`

type cartItemRow struct {
	ID        uuid.UUID
	SessionID string
	ProductID uuid.UUID
	Quantity  int32
	AddedAt   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *cartItemRow) targets() []any {
	return []any{&r.ID, &r.SessionID, &r.ProductID, &r.Quantity, &r.AddedAt, &r.CreatedAt, &r.UpdatedAt}
}

func (r cartItemRow) model() repository.CartItem {
	return repository.CartItem{
		ID:        r.ID.String(),
		SessionID: r.SessionID,
		ProductID: r.ProductID.String(),
		Quantity:  int(r.Quantity),
		AddedAt:   r.AddedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *Store) UpsertCartItem(
	c context.Context,
	param repository.UpsertCartItemParams,
) (repository.CartItem, error) {
	productID, ok := parseID(param.ProductID)
	if !ok {
		return repository.CartItem{}, inErrors.ErrProductNotFound
	}

	now := s.now()
	row := cartItemRow{}
	err := s.pool.QueryRow(
		c,
		upsertCartItem,
		uuid.New(),
		param.SessionID,
		productID,
		param.Quantity,
		now,
		repository.Cutoff(now, s.ttl),
	).Scan(row.targets()...)
	if err != nil {
		return repository.CartItem{}, fmt.Errorf("failed upserting cart item with error=%w", err)
	}
	return row.model(), nil
}

func (s *Store) FindCartItems(
	c context.Context,
	param repository.FindCartItemsParams,
) ([]repository.CartItemWithProduct, error) {
	var limit *int64
	if param.Limit > 0 {
		limit = &param.Limit
	}
	rows, err := s.pool.Query(
		c,
		findCartItems,
		param.SessionID,
		repository.Cutoff(s.now(), s.ttl),
		param.Offset,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed querying cart items with error=%w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.CartItemWithProduct, error) {
		item := cartItemRow{}
		product := productRow{}
		if err := row.Scan(append(item.targets(), product.targets()...)...); err != nil {
			return repository.CartItemWithProduct{}, err
		}
		return repository.CartItemWithProduct{CartItem: item.model(), Product: product.model()}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed scanning cart items with error=%w", err)
	}
	return items, nil
}

func (s *Store) CountCartItems(c context.Context, sessionID string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(c, countCartItems, sessionID, repository.Cutoff(s.now(), s.ttl)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed counting cart items with error=%w", err)
	}
	return count, nil
}

func (s *Store) SumCartQuantity(c context.Context, sessionID string) (int64, error) {
	var sum int64
	err := s.pool.QueryRow(c, sumCartQuantity, sessionID, repository.Cutoff(s.now(), s.ttl)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed summing cart quantity with error=%w", err)
	}
	return sum, nil
}

func (s *Store) DeleteCartItems(c context.Context, sessionID string) (int64, error) {
	tag, err := s.pool.Exec(c, deleteCartItems, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed deleting cart items with error=%w", err)
	}
	return tag.RowsAffected(), nil
}
