package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metrics"
)

func TestRecoverPanic(t *testing.T) {
	handler := RecoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed", body["status"])
}

func TestChainCountsRecoveredPanics(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Chain(config.RateLimit{})...)
	router.HandleFunc("/explode", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}).Methods(http.MethodGet)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/explode", "500")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestLogging(t *testing.T) {
	t.Run("given json body should keep it readable for the next handler", func(t *testing.T) {
		var (
			gotBody      []byte
			gotRequestID string
		)
		handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotRequestID = log.RequestIDFromContext(r.Context())
		}))

		r := httptest.NewRequest(http.MethodPost, "/cart/add", bytes.NewBufferString(`{"productId":"p1"}`))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("X-Request-Id", "req-42")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.JSONEq(t, `{"productId":"p1"}`, string(gotBody))
		assert.Equal(t, "req-42", gotRequestID)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
	})

	t.Run("given no request id should generate one", func(t *testing.T) {
		var gotRequestID string
		handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRequestID = log.RequestIDFromContext(r.Context())
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, gotRequestID)
	})
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(config.RateLimit{Enabled: true, Requests: 1, Window: time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCors(t *testing.T) {
	handler := Cors(config.Cors{AllowCredentials: true})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)

	r := httptest.NewRequest(http.MethodGet, "/products", nil)
	r.Header.Set("Origin", "http://frontend.local")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, "http://frontend.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
