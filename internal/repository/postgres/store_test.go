package postgres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type (
	setupFunc    func(context.Context) (*pgxpool.Pool, *postgres.PostgresContainer, *Store, *fakeClock)
	teardownFunc func(*pgxpool.Pool, *postgres.PostgresContainer)
)

func setup(t *testing.T) setupFunc {
	return func(c context.Context) (*pgxpool.Pool, *postgres.PostgresContainer, *Store, *fakeClock) {
		pgContainer, err := postgres.Run(
			c,
			"postgres:16.6-alpine3.21",
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.WithDatabase("postgres"),
			postgres.BasicWaitStrategies(),
			postgres.WithInitScripts(
				filepath.Join("migrations", "20241201090000_create_table_categories.up.sql"),
				filepath.Join("migrations", "20241201090100_create_table_products.up.sql"),
				filepath.Join("migrations", "20241201090200_create_table_cart_items.up.sql"),
			),
		)
		if err != nil {
			t.Fatalf("failed running postgres container with error: %s", err)
		}

		pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
		if err != nil {
			t.Fatalf("failed getting postgres connection string with error: %s", err)
		}

		pgConfig, err := pgxpool.ParseConfig(pgConnStr)
		if err != nil {
			t.Fatalf("failed parsing pgx config with error: %s", err)
		}
		pgConfig.AfterConnect = AfterConnect

		pool, err := pgxpool.NewWithConfig(c, pgConfig)
		if err != nil {
			t.Fatalf("failed creating postgres pool with error: %s", err)
		}
		if err = pool.Ping(c); err != nil {
			t.Fatalf("failed ping postgres pool with error: %s", err)
		}

		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		return pool, pgContainer, NewStore(pool, 12*time.Hour, clock.Now), clock
	}
}

func teardown(t *testing.T) teardownFunc {
	return func(pool *pgxpool.Pool, pgContainer *postgres.PostgresContainer) {
		pool.Close()
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}

func seedProduct(t *testing.T, c context.Context, store *Store) (repository.Category, repository.Product) {
	category, err := store.InsertCategory(c, repository.InsertCategoryParams{Name: "shoes"})
	require.NoError(t, err)
	product, err := store.InsertProduct(c, repository.InsertProductParams{
		Name:       "runner",
		Price:      decimal.RequireFromString("49.99"),
		CategoryID: category.ID,
		Units:      10,
	})
	require.NoError(t, err)
	return category, product
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	c := context.Background()
	pool, pgContainer, store, clock := setup(t)(c)
	defer teardown(t)(pool, pgContainer)

	category, product := seedProduct(t, c, store)

	t.Run("product is populated with its category", func(t *testing.T) {
		found, err := store.FindProductById(c, product.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("49.99").Equal(found.Price))
		require.NotNil(t, found.Category)
		assert.Equal(t, category.ID, found.Category.ID)

		byIds, err := store.FindProductsByIds(c, []string{product.ID, "not-a-uuid"})
		require.NoError(t, err)
		assert.Len(t, byIds, 1)
	})

	t.Run("partial update keeps untouched columns", func(t *testing.T) {
		name := "trail runner"
		price := decimal.RequireFromString("59.50")
		updated, err := store.UpdateProduct(c, repository.UpdateProductParams{ID: product.ID, Name: &name, Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "trail runner", updated.Name)
		assert.True(t, price.Equal(updated.Price))
		assert.EqualValues(t, 10, updated.Units)
		assert.Equal(t, category.ID, updated.CategoryID)
	})

	t.Run("unparseable id is not found", func(t *testing.T) {
		_, err := store.FindProductById(c, "not-a-uuid")
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)

		_, err = store.DeleteCategory(c, "not-a-uuid")
		assert.ErrorIs(t, err, inErrors.ErrCategoryNotFound)
	})

	t.Run("adds for the same pair merge into one line", func(t *testing.T) {
		first, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s1", ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, first.Quantity)

		clock.Advance(time.Hour)
		second, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s1", ProductID: product.ID, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 5, second.Quantity)
		assert.True(t, first.AddedAt.Equal(second.AddedAt))

		items, err := store.FindCartItems(c, repository.FindCartItemsParams{SessionID: "s1"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].Product)
		require.NotNil(t, items[0].Product.Category)
		assert.Equal(t, category.ID, items[0].Product.Category.ID)
	})

	t.Run("sum covers every live line", func(t *testing.T) {
		_, other := seedProduct(t, c, store)
		_, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s2", ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)
		_, err = store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s2", ProductID: other.ID, Quantity: 3})
		require.NoError(t, err)

		sum, err := store.SumCartQuantity(c, "s2")
		require.NoError(t, err)
		assert.EqualValues(t, 5, sum)

		count, err := store.CountCartItems(c, "s2")
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("orphan lines keep a nil product", func(t *testing.T) {
		orphan, err := store.InsertProduct(c, repository.InsertProductParams{Name: "gone", CategoryID: category.ID})
		require.NoError(t, err)
		_, err = store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s3", ProductID: orphan.ID, Quantity: 1})
		require.NoError(t, err)
		deleted, err := store.DeleteProduct(c, orphan.ID)
		require.NoError(t, err)
		assert.Equal(t, orphan.ID, deleted.ID)

		items, err := store.FindCartItems(c, repository.FindCartItemsParams{SessionID: "s3"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].Product)
	})

	t.Run("clear removes every line and is idempotent", func(t *testing.T) {
		deleted, err := store.DeleteCartItems(c, "s2")
		require.NoError(t, err)
		assert.EqualValues(t, 2, deleted)

		items, err := store.FindCartItems(c, repository.FindCartItemsParams{SessionID: "s2"})
		require.NoError(t, err)
		assert.Empty(t, items)

		deleted, err = store.DeleteCartItems(c, "s2")
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})

	t.Run("expired lines are unreachable and recreated on add", func(t *testing.T) {
		_, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s4", ProductID: product.ID, Quantity: 4})
		require.NoError(t, err)

		clock.Advance(12*time.Hour + time.Minute)

		sum, err := store.SumCartQuantity(c, "s4")
		require.NoError(t, err)
		assert.Zero(t, sum)

		recreated, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s4", ProductID: product.ID, Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, recreated.Quantity)
		assert.True(t, clock.Now().Equal(recreated.AddedAt))
	})

	t.Run("concurrent adds lose no increment", func(t *testing.T) {
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s5", ProductID: product.ID, Quantity: 1})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		sum, err := store.SumCartQuantity(c, "s5")
		require.NoError(t, err)
		assert.EqualValues(t, 20, sum)
	})
}
