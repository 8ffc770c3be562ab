package controller

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/memory"
	"github.com/Alturino/storefront/internal/storage"
	"github.com/Alturino/storefront/product/internal/service"
)

type envelope struct {
	Status     string                     `json:"status"`
	StatusCode int                        `json:"statusCode"`
	Message    string                     `json:"message"`
	Error      string                     `json:"error"`
	Data       map[string]json.RawMessage `json:"data"`
}

func setup(t *testing.T, publicURL string) (*mux.Router, *memory.Store) {
	t.Helper()
	store := memory.NewStore(12*time.Hour, time.Now)
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewProductService(store, store, local)
	router := mux.NewRouter()
	AttachProductController(router, &svc, publicURL)
	return router, store
}

func do(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	body := envelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func multipartRequest(
	t *testing.T,
	method string,
	target string,
	fields map[string]string,
	contentType string,
) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if contentType != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="blue tee.png"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("image"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func insertCategory(t *testing.T, store *memory.Store) repository.Category {
	t.Helper()
	category, err := store.InsertCategory(context.Background(), repository.InsertCategoryParams{Name: "shirts"})
	require.NoError(t, err)
	return category
}

func TestInsertProduct(t *testing.T) {
	router, store := setup(t, "")
	category := insertCategory(t, store)

	tests := []struct {
		name         string
		fields       map[string]string
		contentType  string
		expectedCode int
	}{
		{
			name:         "given valid form should create product",
			fields:       map[string]string{"name": "tee", "price": "12.50", "category": category.ID, "units": "3", "isBestSelling": "true"},
			contentType:  "image/png",
			expectedCode: http.StatusCreated,
		},
		{
			name:         "given missing image should return bad request",
			fields:       map[string]string{"name": "tee", "price": "12.50", "category": category.ID},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "given unknown category should return bad request",
			fields:       map[string]string{"name": "tee", "price": "12.50", "category": "missing"},
			contentType:  "image/png",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "given invalid image type should return bad request",
			fields:       map[string]string{"name": "tee", "price": "12.50", "category": category.ID},
			contentType:  "text/plain",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "given negative price should return bad request",
			fields:       map[string]string{"name": "tee", "price": "-1", "category": category.ID},
			contentType:  "image/png",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "given non numeric units should return bad request",
			fields:       map[string]string{"name": "tee", "price": "1", "category": category.ID, "units": "many"},
			contentType:  "image/png",
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := multipartRequest(t, http.MethodPost, "/products", test.fields, test.contentType)
			req.Host = "shop.example.com"
			rec, body := do(t, router, req)
			assert.Equal(t, test.expectedCode, rec.Code)
			if test.expectedCode != http.StatusCreated {
				assert.Equal(t, "failed", body.Status)
				return
			}

			product := map[string]interface{}{}
			require.NoError(t, json.Unmarshal(body.Data["product"], &product))
			assert.Equal(t, "tee", product["name"])
			assert.Equal(t, true, product["isBestSelling"])
			assert.EqualValues(t, 3, product["units"])
			assert.Contains(t, product["image"], "http://shop.example.com/public/uploads/blue-tee.png-")
		})
	}
}

func TestProductReads(t *testing.T) {
	router, store := setup(t, "https://cdn.example.com")
	category := insertCategory(t, store)

	rec, body := do(t, router, multipartRequest(t, http.MethodPost, "/products", map[string]string{
		"name": "tee", "price": "9", "category": category.ID,
	}, "image/jpeg"))
	require.Equal(t, http.StatusCreated, rec.Code)
	product := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body.Data["product"], &product))
	productID := product["id"].(string)
	assert.Contains(t, product["image"], "https://cdn.example.com/public/uploads/")

	rec, body = do(t, router, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	products := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body.Data["products"], &products))
	require.Len(t, products, 1)
	assert.NotNil(t, products[0]["category"])

	rec, body = do(t, router, httptest.NewRequest(http.MethodGet, "/products/count", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", string(body.Data["count"]))

	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/products/page?page=1&limit=5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/products/page?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/products/page?page=9223372036854775807", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/products/"+productID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, router, httptest.NewRequest(http.MethodGet, "/products/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", body.Error)

	rec, body = do(t, router, httptest.NewRequest(http.MethodGet, "/products/category/"+category.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body.Data["products"], &products))
	assert.Len(t, products, 1)

	byIds := []struct {
		name         string
		body         string
		expectedCode int
	}{
		{name: "given known ids should return products", body: `{"productIds":["` + productID + `"]}`, expectedCode: http.StatusOK},
		{name: "given unknown ids should return not found", body: `{"productIds":["missing"]}`, expectedCode: http.StatusNotFound},
		{name: "given non array should return bad request", body: `{"productIds":"` + productID + `"}`, expectedCode: http.StatusBadRequest},
		{name: "given missing productIds should return bad request", body: `{}`, expectedCode: http.StatusBadRequest},
	}
	for _, test := range byIds {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/products/getProductsByIds", bytes.NewBufferString(test.body))
			rec, _ := do(t, router, req)
			assert.Equal(t, test.expectedCode, rec.Code)
		})
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	router, store := setup(t, "")
	category := insertCategory(t, store)

	rec, body := do(t, router, multipartRequest(t, http.MethodPost, "/products", map[string]string{
		"name": "tee", "price": "9", "category": category.ID,
	}, "image/gif"))
	require.Equal(t, http.StatusCreated, rec.Code)
	product := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body.Data["product"], &product))
	productID := product["id"].(string)

	rec, body = do(t, router, multipartRequest(t, http.MethodPut, "/products/"+productID, map[string]string{
		"price": "11.25",
	}, ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	updated := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body.Data["product"], &updated))
	assert.Equal(t, "11.25", updated["price"])
	assert.Equal(t, "tee", updated["name"])
	assert.Equal(t, product["image"], updated["image"])

	rec, _ = do(t, router, multipartRequest(t, http.MethodPut, "/products/missing", map[string]string{"name": "x"}, ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = do(t, router, httptest.NewRequest(http.MethodDelete, "/products/"+productID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", body.Message)

	rec, _ = do(t, router, httptest.NewRequest(http.MethodDelete, "/products/"+productID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
