package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
)

const KEY_PRODUCTS = "products:"

// ProductStore serves FindProductById from redis, filling it from the
// wrapped store on a miss. Only product columns are cached, the category is
// joined from categories on every read. Redis faults never fail the request.
type ProductStore struct {
	repository.ProductStore
	categories repository.CategoryStore
	cache      *redis.Client
	ttl        time.Duration
}

var _ repository.ProductStore = (*ProductStore)(nil)

func NewProductStore(
	store repository.ProductStore,
	categories repository.CategoryStore,
	cache *redis.Client,
	ttl time.Duration,
) *ProductStore {
	return &ProductStore{ProductStore: store, categories: categories, cache: cache, ttl: ttl}
}

func (s *ProductStore) FindProductById(c context.Context, id string) (repository.Product, error) {
	c, span := otel.Tracer.Start(c, "cache FindProductById")
	defer span.End()

	cacheKey := KEY_PRODUCTS + id
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache FindProductById").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	cached, err := s.cache.Get(c, cacheKey).Bytes()
	switch {
	case err == nil:
		product := repository.Product{}
		if err = json.Unmarshal(cached, &product); err == nil {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			logger.Debug().Msg("found product in cache")
			return s.withCategory(c, product)
		}
		err = fmt.Errorf("failed unmarshaling cached product with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	case errors.Is(err, redis.Nil):
		logger.Trace().Msg("product not in cache")
	default:
		err = fmt.Errorf("failed getting product from cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	metrics.CacheRequests.WithLabelValues("miss").Inc()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in store").Logger()
	logger.Trace().Msg("finding product in store")
	product, err := s.ProductStore.FindProductById(c, id)
	if err != nil {
		return repository.Product{}, err
	}
	logger.Trace().Msg("found product in store")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product to cache").Logger()
	columns := product
	columns.Category = nil
	encoded, err := json.Marshal(columns)
	if err == nil {
		err = s.cache.Set(c, cacheKey, encoded, s.ttl).Err()
	}
	if err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("inserted product to cache")
	}

	return product, nil
}

func (s *ProductStore) withCategory(c context.Context, product repository.Product) (repository.Product, error) {
	product.Category = nil
	if product.CategoryID == "" {
		return product, nil
	}
	category, err := s.categories.FindCategoryById(c, product.CategoryID)
	if errors.Is(err, inErrors.ErrNotFound) {
		return product, nil
	}
	if err != nil {
		return repository.Product{}, fmt.Errorf("failed finding category of cached product with error=%w", err)
	}
	product.Category = &category
	return product, nil
}

func (s *ProductStore) ProductExists(c context.Context, id string) (bool, error) {
	_, err := s.FindProductById(c, id)
	if errors.Is(err, inErrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ProductStore) UpdateProduct(
	c context.Context,
	param repository.UpdateProductParams,
) (repository.Product, error) {
	product, err := s.ProductStore.UpdateProduct(c, param)
	s.invalidate(c, param.ID)
	return product, err
}

func (s *ProductStore) DeleteProduct(c context.Context, id string) (repository.Product, error) {
	product, err := s.ProductStore.DeleteProduct(c, id)
	s.invalidate(c, id)
	return product, err
}

func (s *ProductStore) invalidate(c context.Context, id string) {
	cacheKey := KEY_PRODUCTS + id
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache invalidate").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()
	if err := s.cache.Del(c, cacheKey).Err(); err != nil {
		err = fmt.Errorf("failed deleting product from cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("deleted product from cache")
}
