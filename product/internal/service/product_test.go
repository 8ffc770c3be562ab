package service

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/memory"
	"github.com/Alturino/storefront/internal/storage"
	"github.com/Alturino/storefront/product/pkg/request"
)

const baseURL = "http://localhost:5000"

var uploadedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (ProductService, *memory.Store, *storage.LocalStorage) {
	t.Helper()
	store := memory.NewStore(12*time.Hour, time.Now)
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewProductService(store, store, local)
	svc.now = func() time.Time { return uploadedAt }
	return svc, store, local
}

func insertCategory(t *testing.T, store *memory.Store) repository.Category {
	t.Helper()
	category, err := store.InsertCategory(context.Background(), repository.InsertCategoryParams{Name: "shirts"})
	require.NoError(t, err)
	return category
}

func image(name string, contentType string) *request.Image {
	return &request.Image{
		FileName:    name,
		ContentType: contentType,
		Size:        5,
		Body:        strings.NewReader("image"),
	}
}

func TestInsertProduct(t *testing.T) {
	tests := []struct {
		name        string
		param       func(categoryID string) request.Product
		expectedErr error
	}{
		{
			name: "given valid product should store image and product",
			param: func(categoryID string) request.Product {
				return request.Product{Name: "tee", Price: "19.99", CategoryID: categoryID, Units: 4, Image: image("blue tee.png", "image/png")}
			},
		},
		{
			name: "given no image should return image required",
			param: func(categoryID string) request.Product {
				return request.Product{Name: "tee", Price: "19.99", CategoryID: categoryID}
			},
			expectedErr: inErrors.ErrImageRequired,
		},
		{
			name: "given unknown category should return unknown category",
			param: func(string) request.Product {
				return request.Product{Name: "tee", Price: "19.99", CategoryID: "missing", Image: image("tee.png", "image/png")}
			},
			expectedErr: inErrors.ErrUnknownCategory,
		},
		{
			name: "given unsupported image type should return invalid image type",
			param: func(categoryID string) request.Product {
				return request.Product{Name: "tee", Price: "19.99", CategoryID: categoryID, Image: image("tee.svg", "image/svg+xml")}
			},
			expectedErr: inErrors.ErrInvalidImageType,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := context.Background()
			svc, store, local := setup(t)
			category := insertCategory(t, store)

			product, err := svc.InsertProduct(c, baseURL, test.param(category.ID))
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				entries, err := os.ReadDir(local.Dir())
				require.NoError(t, err)
				assert.Empty(t, entries)
				return
			}
			require.NoError(t, err)

			fileName := "blue-tee.png-1704067200000.png"
			assert.Equal(t, baseURL+storage.PUBLIC_UPLOADS_PATH+fileName, product.Image)
			assert.FileExists(t, filepath.Join(local.Dir(), fileName))
			assert.Equal(t, "19.99", product.Price.String())
			require.NotNil(t, product.Category)
			assert.Equal(t, "shirts", product.Category.Name)

			found, err := svc.FindProductById(c, product.ID)
			require.NoError(t, err)
			assert.Equal(t, product.ID, found.ID)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	c := context.Background()
	svc, store, local := setup(t)
	category := insertCategory(t, store)

	product, err := svc.InsertProduct(c, baseURL, request.Product{
		Name:       "tee",
		Price:      "10",
		CategoryID: category.ID,
		Image:      image("tee.png", "image/png"),
	})
	require.NoError(t, err)
	oldFile := filepath.Join(local.Dir(), storage.KeyFromURL(product.Image))
	require.FileExists(t, oldFile)

	name := "long tee"
	updated, err := svc.UpdateProduct(c, baseURL, product.ID, request.UpdateProduct{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "long tee", updated.Name)
	assert.Equal(t, product.Image, updated.Image)
	assert.FileExists(t, oldFile)

	svc.now = func() time.Time { return uploadedAt.Add(time.Second) }
	updated, err = svc.UpdateProduct(c, baseURL, product.ID, request.UpdateProduct{Image: image("new.webp", "image/webp")})
	require.NoError(t, err)
	assert.NotEqual(t, product.Image, updated.Image)
	assert.FileExists(t, filepath.Join(local.Dir(), storage.KeyFromURL(updated.Image)))
	assert.NoFileExists(t, oldFile)

	missing := "missing"
	_, err = svc.UpdateProduct(c, baseURL, product.ID, request.UpdateProduct{CategoryID: &missing})
	assert.ErrorIs(t, err, inErrors.ErrUnknownCategory)

	_, err = svc.UpdateProduct(c, baseURL, "missing", request.UpdateProduct{Name: &name})
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	c := context.Background()
	svc, store, local := setup(t)
	category := insertCategory(t, store)

	product, err := svc.InsertProduct(c, baseURL, request.Product{
		Name:       "tee",
		Price:      "10",
		CategoryID: category.ID,
		Image:      image("tee.png", "image/png"),
	})
	require.NoError(t, err)
	file := filepath.Join(local.Dir(), storage.KeyFromURL(product.Image))

	deleted, err := svc.DeleteProduct(c, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, deleted.ID)
	assert.NoFileExists(t, file)

	_, err = svc.FindProductById(c, product.ID)
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)

	_, err = svc.DeleteProduct(c, product.ID)
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestFindProducts(t *testing.T) {
	c := context.Background()
	svc, store, _ := setup(t)
	shirts := insertCategory(t, store)
	hats, err := store.InsertCategory(c, repository.InsertCategoryParams{Name: "hats"})
	require.NoError(t, err)

	ids := []string{}
	for i, categoryID := range []string{shirts.ID, shirts.ID, hats.ID} {
		svc.now = func() time.Time { return uploadedAt.Add(time.Duration(i) * time.Second) }
		product, err := svc.InsertProduct(c, baseURL, request.Product{
			Name:       "item",
			Price:      "5",
			CategoryID: categoryID,
			Image:      image("item.png", "image/png"),
		})
		require.NoError(t, err)
		ids = append(ids, product.ID)
	}

	products, err := svc.FindProducts(c)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	count, err := svc.CountProducts(c)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	page, err := svc.FindProductsPage(c, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	_, err = svc.FindProductsPage(c, 0, 2)
	assert.ErrorIs(t, err, inErrors.ErrInvalidPagination)

	_, err = svc.FindProductsPage(c, math.MaxInt, 10)
	assert.ErrorIs(t, err, inErrors.ErrInvalidPagination)

	byCategory, err := svc.FindProductsByCategoryId(c, shirts.ID)
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byIds, err := svc.FindProductsByIds(c, []string{ids[0], ids[2], "missing"})
	require.NoError(t, err)
	assert.Len(t, byIds, 2)

	_, err = svc.FindProductsByIds(c, []string{"missing"})
	assert.ErrorIs(t, err, inErrors.ErrProductsNotFound)
}
