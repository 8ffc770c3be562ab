package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/storage"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

type ProductService struct {
	products   repository.ProductStore
	categories repository.CategoryStore
	storage    storage.Storage
	now        func() time.Time
}

func NewProductService(
	products repository.ProductStore,
	categories repository.CategoryStore,
	storage storage.Storage,
) ProductService {
	return ProductService{
		products:   products,
		categories: categories,
		storage:    storage,
		now:        time.Now,
	}
}

func (svc ProductService) ensureCategory(c context.Context, categoryID string) error {
	exists, err := svc.categories.CategoryExists(c, categoryID)
	if err != nil {
		return fmt.Errorf("failed checking categoryId=%s exists with error=%w", categoryID, err)
	}
	if !exists {
		return inErrors.ErrUnknownCategory
	}
	return nil
}

// saveImage stores the upload and returns its key and public url.
func (svc ProductService) saveImage(
	c context.Context,
	baseURL string,
	image *request.Image,
) (string, string, error) {
	key, err := storage.FileName(image.FileName, image.ContentType, svc.now())
	if err != nil {
		return "", "", err
	}
	if err = svc.storage.Save(c, key, image.ContentType, image.Body, image.Size); err != nil {
		return "", "", fmt.Errorf("failed saving image=%s with error=%w", key, err)
	}
	return key, svc.storage.URL(baseURL, key), nil
}

// deleteImage removes the stored image behind url, failures are only logged.
func (svc ProductService) deleteImage(c context.Context, logger zerolog.Logger, url string) {
	key := storage.KeyFromURL(url)
	if key == "" {
		return
	}
	logger = logger.With().Str(constants.KEY_IMAGE, key).Logger()
	logger.Info().Msg("deleting image")
	if err := svc.storage.Delete(c, key); err != nil {
		err = fmt.Errorf("failed deleting image=%s with error=%w", key, err)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("deleted image")
}

func (svc ProductService) InsertProduct(
	c context.Context,
	baseURL string,
	param request.Product,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService InsertProduct").
		Str(constants.KEY_CATEGORY_ID, param.CategoryID).
		Logger()

	if param.Image == nil {
		err := inErrors.ErrImageRequired
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "checking category exists").Logger()
	logger.Info().Msg("checking category exists")
	if err := svc.ensureCategory(c, param.CategoryID); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("category exists")

	price, err := decimal.NewFromString(param.Price)
	if err != nil {
		err = fmt.Errorf("failed parsing price=%s with error=%w", param.Price, inErrors.ErrBadRequest)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "saving image").Logger()
	logger.Info().Msg("saving image")
	key, url, err := svc.saveImage(c, baseURL, param.Image)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger = logger.With().Str(constants.KEY_IMAGE, key).Logger()
	logger.Info().Msg("saved image")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	product, err := svc.products.InsertProduct(c, repository.InsertProductParams{
		Name:          param.Name,
		Description:   param.Description,
		Price:         price,
		CategoryID:    param.CategoryID,
		Image:         url,
		Units:         param.Units,
		IsBestSelling: param.IsBestSelling,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.deleteImage(c, logger, url)
		return response.Product{}, err
	}
	logger.Info().Str(constants.KEY_PRODUCT_ID, product.ID).Msg("inserted product")

	return product.Response(), nil
}

func (svc ProductService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProducts").
		Str(constants.KEY_PROCESS, "finding products").
		Logger()

	logger.Info().Msg("finding products")
	products, err := svc.products.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_COUNT, len(products)).Msg("found products")

	return repository.Products(products), nil
}

func (svc ProductService) FindProductsPage(
	c context.Context,
	page int,
	limit int,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductsPage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductsPage").
		Int(constants.KEY_PAGE, page).
		Int(constants.KEY_LIMIT, limit).
		Logger()

	offset, err := repository.PageOffset(page, limit)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products page").Logger()
	logger.Info().Msg("finding products page")
	products, err := svc.products.FindProductsPage(c, offset, int64(limit))
	if err != nil {
		err = fmt.Errorf("failed finding products page with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_COUNT, len(products)).Msg("found products page")

	return repository.Products(products), nil
}

func (svc ProductService) FindProductById(c context.Context, id string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductById").
		Str(constants.KEY_PRODUCT_ID, id).
		Str(constants.KEY_PROCESS, "finding product").
		Logger()

	logger.Info().Msgf("finding productId=%s", id)
	product, err := svc.products.FindProductById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msgf("found productId=%s", id)

	return product.Response(), nil
}

func (svc ProductService) FindProductsByIds(c context.Context, ids []string) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductsByIds")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductsByIds").
		Strs(constants.KEY_PRODUCT_IDS, ids).
		Str(constants.KEY_PROCESS, "finding products by ids").
		Logger()

	logger.Info().Msg("finding products by ids")
	products, err := svc.products.FindProductsByIds(c, ids)
	if err != nil {
		err = fmt.Errorf("failed finding products by ids with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if len(products) == 0 {
		err = inErrors.ErrProductsNotFound
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_COUNT, len(products)).Msg("found products by ids")

	return repository.Products(products), nil
}

func (svc ProductService) FindProductsByCategoryId(
	c context.Context,
	categoryID string,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductsByCategoryId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductsByCategoryId").
		Str(constants.KEY_CATEGORY_ID, categoryID).
		Str(constants.KEY_PROCESS, "finding products by category").
		Logger()

	logger.Info().Msg("finding products by category")
	products, err := svc.products.FindProductsByCategoryId(c, categoryID)
	if err != nil {
		err = fmt.Errorf("failed finding products by categoryId=%s with error=%w", categoryID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_COUNT, len(products)).Msg("found products by category")

	return repository.Products(products), nil
}

func (svc ProductService) CountProducts(c context.Context) (int64, error) {
	c, span := otel.Tracer.Start(c, "ProductService CountProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService CountProducts").
		Str(constants.KEY_PROCESS, "counting products").
		Logger()

	logger.Info().Msg("counting products")
	count, err := svc.products.CountProducts(c)
	if err != nil {
		err = fmt.Errorf("failed counting products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	logger.Info().Int64(constants.KEY_COUNT, count).Msg("counted products")

	return count, nil
}

// UpdateProduct applies the set fields of param, replacing the image when a
// new one is uploaded.
func (svc ProductService) UpdateProduct(
	c context.Context,
	baseURL string,
	id string,
	param request.UpdateProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService UpdateProduct").
		Str(constants.KEY_PRODUCT_ID, id).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msgf("finding productId=%s", id)
	existing, err := svc.products.FindProductById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msgf("found productId=%s", id)

	update := repository.UpdateProductParams{
		ID:            id,
		Name:          param.Name,
		Description:   param.Description,
		CategoryID:    param.CategoryID,
		Units:         param.Units,
		IsBestSelling: param.IsBestSelling,
	}

	if param.CategoryID != nil {
		logger = logger.With().
			Str(constants.KEY_PROCESS, "checking category exists").
			Str(constants.KEY_CATEGORY_ID, *param.CategoryID).
			Logger()
		logger.Info().Msg("checking category exists")
		if err = svc.ensureCategory(c, *param.CategoryID); err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		logger.Info().Msg("category exists")
	}

	if param.Price != nil {
		price, err := decimal.NewFromString(*param.Price)
		if err != nil {
			err = fmt.Errorf("failed parsing price=%s with error=%w", *param.Price, inErrors.ErrBadRequest)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		update.Price = &price
	}

	url := ""
	if param.Image != nil {
		logger = logger.With().Str(constants.KEY_PROCESS, "saving image").Logger()
		logger.Info().Msg("saving image")
		key := ""
		key, url, err = svc.saveImage(c, baseURL, param.Image)
		if err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		update.Image = &url
		logger.Info().Str(constants.KEY_IMAGE, key).Msg("saved image")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Info().Msgf("updating productId=%s", id)
	product, err := svc.products.UpdateProduct(c, update)
	if err != nil {
		err = fmt.Errorf("failed updating productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.deleteImage(c, logger, url)
		return response.Product{}, err
	}
	logger.Info().Msgf("updated productId=%s", id)

	if url != "" && existing.Image != url {
		svc.deleteImage(c, logger, existing.Image)
	}

	return product.Response(), nil
}

// DeleteProduct removes the product and then its image.
func (svc ProductService) DeleteProduct(c context.Context, id string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService DeleteProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService DeleteProduct").
		Str(constants.KEY_PRODUCT_ID, id).
		Str(constants.KEY_PROCESS, "deleting product").
		Logger()

	logger.Info().Msgf("deleting productId=%s", id)
	product, err := svc.products.DeleteProduct(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msgf("deleted productId=%s", id)

	svc.deleteImage(c, logger, product.Image)

	return product.Response(), nil
}
