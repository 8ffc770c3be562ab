package mongo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

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
	setupFunc    func(context.Context) (*mongo.Client, *mongodb.MongoDBContainer, *Store, *fakeClock)
	teardownFunc func(*mongo.Client, *mongodb.MongoDBContainer)
)

func setup(t *testing.T) setupFunc {
	return func(c context.Context) (*mongo.Client, *mongodb.MongoDBContainer, *Store, *fakeClock) {
		container, err := mongodb.Run(c, "mongo:7.0.14")
		if err != nil {
			t.Fatalf("failed running mongodb container with error: %s", err)
		}

		uri, err := container.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting mongodb connection string with error: %s", err)
		}

		client, err := mongo.Connect(c, options.Client().ApplyURI(uri))
		if err != nil {
			t.Fatalf("failed connecting to mongodb with error: %s", err)
		}
		if err = client.Ping(c, nil); err != nil {
			t.Fatalf("failed ping mongodb with error: %s", err)
		}

		// the server ttl monitor runs on wall time, start the fake clock there
		clock := &fakeClock{now: time.Now().UTC().Truncate(time.Millisecond)}
		store := NewStore(client.Database("storefront_test"), 12*time.Hour, clock.Now)
		if err = store.EnsureIndexes(c); err != nil {
			t.Fatalf("failed creating indexes with error: %s", err)
		}
		return client, container, store, clock
	}
}

func teardown(t *testing.T) teardownFunc {
	return func(client *mongo.Client, container *mongodb.MongoDBContainer) {
		_ = client.Disconnect(context.Background())
		if err := testcontainers.TerminateContainer(container); err != nil {
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

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	c := context.Background()
	client, container, store, clock := setup(t)(c)
	defer teardown(t)(client, container)

	category, product := seedProduct(t, c, store)

	t.Run("product is populated with its category", func(t *testing.T) {
		found, err := store.FindProductById(c, product.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("49.99").Equal(found.Price))
		require.NotNil(t, found.Category)
		assert.Equal(t, category.ID, found.Category.ID)
	})

	t.Run("unparseable id is not found", func(t *testing.T) {
		_, err := store.FindProductById(c, "not-an-object-id")
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)

		exists, err := store.ProductExists(c, "not-an-object-id")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("adds for the same pair merge into one line", func(t *testing.T) {
		first, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s1", ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, first.Quantity)

		second, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s1", ProductID: product.ID, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 5, second.Quantity)
		assert.True(t, first.AddedAt.Equal(second.AddedAt))

		items, err := store.FindCartItems(c, repository.FindCartItemsParams{SessionID: "s1"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].Product)
		assert.Equal(t, product.ID, items[0].Product.ID)
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

		empty, err := store.SumCartQuantity(c, "nobody")
		require.NoError(t, err)
		assert.Zero(t, empty)
	})

	t.Run("orphan lines keep a nil product", func(t *testing.T) {
		orphan, err := store.InsertProduct(c, repository.InsertProductParams{Name: "gone", CategoryID: category.ID})
		require.NoError(t, err)
		_, err = store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s3", ProductID: orphan.ID, Quantity: 1})
		require.NoError(t, err)
		_, err = store.DeleteProduct(c, orphan.ID)
		require.NoError(t, err)

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

		items, err := store.FindCartItems(c, repository.FindCartItemsParams{SessionID: "s4"})
		require.NoError(t, err)
		assert.Empty(t, items)

		recreated, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s4", ProductID: product.ID, Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, recreated.Quantity)
		assert.WithinDuration(t, clock.Now(), recreated.AddedAt, time.Second)
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

		count, err := store.CountCartItems(c, "s5")
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("paging skips and limits", func(t *testing.T) {
		_, second := seedProduct(t, c, store)
		_, err := store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s6", ProductID: product.ID, Quantity: 1})
		require.NoError(t, err)
		clock.Advance(time.Second)
		_, err = store.UpsertCartItem(c, repository.UpsertCartItemParams{SessionID: "s6", ProductID: second.ID, Quantity: 1})
		require.NoError(t, err)

		page, err := store.FindCartItems(c, repository.FindCartItemsParams{SessionID: "s6", Offset: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, second.ID, page[0].ProductID)
	})
}
