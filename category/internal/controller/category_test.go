package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/category/internal/service"
	"github.com/Alturino/storefront/internal/repository/memory"
)

type envelope struct {
	Status     string                     `json:"status"`
	StatusCode int                        `json:"statusCode"`
	Message    string                     `json:"message"`
	Error      string                     `json:"error"`
	Data       map[string]json.RawMessage `json:"data"`
}

func setup(t *testing.T) *mux.Router {
	t.Helper()
	store := memory.NewStore(12*time.Hour, time.Now)
	svc := service.NewCategoryService(store)
	router := mux.NewRouter()
	AttachCategoryController(router, &svc)
	return router
}

func do(t *testing.T, router http.Handler, method string, target string, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	result := envelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return rec, result
}

func TestInsertCategory(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedCode int
	}{
		{name: "given name should create category", body: `{"name":"shirts","description":"cotton"}`, expectedCode: http.StatusCreated},
		{name: "given no name should return bad request", body: `{"description":"cotton"}`, expectedCode: http.StatusBadRequest},
		{name: "given malformed body should return bad request", body: `{"name":`, expectedCode: http.StatusBadRequest},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			router := setup(t)
			rec, body := do(t, router, http.MethodPost, "/categories", test.body)
			assert.Equal(t, test.expectedCode, rec.Code)
			assert.Equal(t, test.expectedCode, body.StatusCode)
		})
	}
}

func TestCategoryLifecycle(t *testing.T) {
	router := setup(t)

	rec, body := do(t, router, http.MethodPost, "/categories", `{"name":"shirts"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	category := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body.Data["category"], &category))
	categoryID := category["id"].(string)

	rec, body = do(t, router, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	categories := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body.Data["categories"], &categories))
	assert.Len(t, categories, 1)

	rec, _ = do(t, router, http.MethodGet, "/categories/"+categoryID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, router, http.MethodPut, "/categories/"+categoryID, `{"description":"cotton"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body.Data["category"], &category))
	assert.Equal(t, "shirts", category["name"])
	assert.Equal(t, "cotton", category["description"])

	rec, _ = do(t, router, http.MethodPut, "/categories/"+categoryID, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, router, http.MethodDelete, "/categories/"+categoryID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Category deleted successfully", body.Message)

	rec, body = do(t, router, http.MethodGet, "/categories/"+categoryID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "category not found", body.Error)

	rec, _ = do(t, router, http.MethodDelete, "/categories/"+categoryID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
