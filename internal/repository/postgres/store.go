package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/Alturino/storefront/internal/repository"
)

type Store struct {
	pool *pgxpool.Pool
	ttl  time.Duration
	now  repository.Clock
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool, ttl time.Duration, clock repository.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{pool: pool, ttl: ttl, now: clock}
}

// AfterConnect registers google/uuid for the uuid columns, set it on every
// pool handed to NewStore.
func AfterConnect(c context.Context, conn *pgx.Conn) error {
	pgxuuid.Register(conn.TypeMap())
	return nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func parseID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// categoryRow and productRow scan left joined columns, every field may be
// null.
type categoryRow struct {
	ID          *uuid.UUID
	Name        *string
	Description *string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

func (r *categoryRow) targets() []any {
	return []any{&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt}
}

func (r categoryRow) model() *repository.Category {
	if r.ID == nil {
		return nil
	}
	return &repository.Category{
		ID:          r.ID.String(),
		Name:        deref(r.Name),
		Description: deref(r.Description),
		CreatedAt:   deref(r.CreatedAt),
		UpdatedAt:   deref(r.UpdatedAt),
	}
}

type productRow struct {
	ID            *uuid.UUID
	Name          *string
	Description   *string
	Price         pgtype.Numeric
	CategoryID    *uuid.UUID
	Image         *string
	Units         *int32
	IsBestSelling *bool
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
	Category      categoryRow
}

func (r *productRow) targets() []any {
	return append([]any{
		&r.ID,
		&r.Name,
		&r.Description,
		&r.Price,
		&r.CategoryID,
		&r.Image,
		&r.Units,
		&r.IsBestSelling,
		&r.CreatedAt,
		&r.UpdatedAt,
	}, r.Category.targets()...)
}

func (r productRow) model() *repository.Product {
	if r.ID == nil {
		return nil
	}
	product := &repository.Product{
		ID:            r.ID.String(),
		Name:          deref(r.Name),
		Description:   deref(r.Description),
		Price:         fromNumeric(r.Price),
		Image:         deref(r.Image),
		Units:         deref(r.Units),
		IsBestSelling: deref(r.IsBestSelling),
		CreatedAt:     deref(r.CreatedAt),
		UpdatedAt:     deref(r.UpdatedAt),
		Category:      r.Category.model(),
	}
	if r.CategoryID != nil {
		product.CategoryID = r.CategoryID.String()
	}
	return product
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
