package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devops-summer22-promotions/promotions/internal/router"
	"github.com/devops-summer22-promotions/promotions/internal/service"
	"github.com/devops-summer22-promotions/promotions/internal/store"
)

func newTestServer() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	services := &service.Registry{
		Promotion: service.NewPromotionService(store.NewMemoryStore(), zap.NewNop()),
	}
	router.RegisterRoutes(engine, services)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	return data
}

func promoPayload() map[string]any {
	return map[string]any{
		"name":       "foo",
		"type":       "PERCENT_DISCOUNT",
		"discount":   30,
		"customer":   nil,
		"start_date": "2022-07-19",
		"end_date":   "2022-07-20",
	}
}

func TestIndex(t *testing.T) {
	engine := newTestServer()
	rec := doJSON(t, engine, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Promotions REST API Service", decodeObject(t, rec)["name"])
}

func TestHealth(t *testing.T) {
	engine := newTestServer()
	rec := doJSON(t, engine, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decodeObject(t, rec)["message"])
}

func TestCreatePromotion(t *testing.T) {
	engine := newTestServer()
	rec := doJSON(t, engine, http.MethodPost, "/promotions", promoPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeObject(t, rec)
	assert.NotNil(t, created["id"])
	assert.Equal(t, "foo", created["name"])
	assert.Equal(t, "PERCENT_DISCOUNT", created["type"])
	assert.Equal(t, float64(30), created["discount"])
	assert.Nil(t, created["customer"])
	assert.Equal(t, "2022-07-19", created["start_date"])
	assert.Equal(t, "2022-07-20", created["end_date"])

	location := rec.Header().Get("Location")
	require.NotEmpty(t, location)
	rec = doJSON(t, engine, http.MethodGet, location, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created["id"], decodeObject(t, rec)["id"])
}

func TestCreateDuplicate(t *testing.T) {
	engine := newTestServer()
	require.Equal(t, http.StatusCreated, doJSON(t, engine, http.MethodPost, "/promotions", promoPayload()).Code)

	// other fields may differ; name+type is what makes a duplicate
	payload := promoPayload()
	payload["discount"] = 99
	payload["end_date"] = "2022-12-31"
	assert.Equal(t, http.StatusConflict, doJSON(t, engine, http.MethodPost, "/promotions", payload).Code)
}

func TestCreateValidationFailures(t *testing.T) {
	engine := newTestServer()

	// empty payload
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodPost, "/promotions", map[string]any{}).Code)

	// numeric type value
	payload := promoPayload()
	payload["type"] = 2
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodPost, "/promotions", payload).Code)

	// non-integer customer id
	payload = promoPayload()
	payload["customer"] = "x"
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodPost, "/promotions", payload).Code)

	// body that is not a key-value mapping
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodPost, "/promotions", "just a string").Code)
}

func TestCreateCustomerEmptyString(t *testing.T) {
	engine := newTestServer()
	payload := promoPayload()
	payload["customer"] = ""
	rec := doJSON(t, engine, http.MethodPost, "/promotions", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, decodeObject(t, rec)["customer"])
}

func TestCreateBadContentType(t *testing.T) {
	engine := newTestServer()
	raw, err := json.Marshal(promoPayload())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/promotions", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "text/html")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestGetPromotion(t *testing.T) {
	engine := newTestServer()
	created := decodeObject(t, doJSON(t, engine, http.MethodPost, "/promotions", promoPayload()))
	id := created["id"]

	rec := doJSON(t, engine, http.MethodGet, "/promotions/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decodeObject(t, rec)["id"])
}

func TestGetPromotionBadIDs(t *testing.T) {
	engine := newTestServer()

	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodGet, "/promotions/1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodGet, "/promotions/a", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodGet, "/promotions/-1", nil).Code)
	// one past 2^31-1
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodGet, "/promotions/2147483648", nil).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	engine := newTestServer()
	rec := doJSON(t, engine, http.MethodPost, "/promotions/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUpdatePromotion(t *testing.T) {
	engine := newTestServer()
	created := decodeObject(t, doJSON(t, engine, http.MethodPost, "/promotions", promoPayload()))

	created["name"] = "GOOD"
	rec := doJSON(t, engine, http.MethodPut, "/promotions/1", created)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeObject(t, rec)
	assert.Equal(t, "GOOD", updated["name"])
	assert.Equal(t, created["id"], updated["id"])
}

func TestUpdatePromotionNotFound(t *testing.T) {
	engine := newTestServer()
	doJSON(t, engine, http.MethodPost, "/promotions", promoPayload())
	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodPut, "/promotions/2", promoPayload()).Code)
}

func TestUpdateBadContentType(t *testing.T) {
	engine := newTestServer()
	doJSON(t, engine, http.MethodPost, "/promotions", promoPayload())
	req := httptest.NewRequest(http.MethodPut, "/promotions/1", strings.NewReader("name=GOOD"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCancelPromotion(t *testing.T) {
	engine := newTestServer()
	doJSON(t, engine, http.MethodPost, "/promotions", promoPayload())

	rec := doJSON(t, engine, http.MethodPut, "/promotions/1/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	canceled := decodeObject(t, rec)
	assert.Equal(t, canceled["start_date"], canceled["end_date"])

	// canceling again is a no-op success
	rec = doJSON(t, engine, http.MethodPut, "/promotions/1/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	again := decodeObject(t, rec)
	assert.Equal(t, canceled["end_date"], again["end_date"])
}

func TestCancelPromotionNotFound(t *testing.T) {
	engine := newTestServer()
	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodPut, "/promotions/1/cancel", nil).Code)
}

func TestDeletePromotion(t *testing.T) {
	engine := newTestServer()
	doJSON(t, engine, http.MethodPost, "/promotions", promoPayload())

	rec := doJSON(t, engine, http.MethodDelete, "/promotions/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodGet, "/promotions/1", nil).Code)

	// delete stays a 204 for an id that no longer exists
	assert.Equal(t, http.StatusNoContent, doJSON(t, engine, http.MethodDelete, "/promotions/1", nil).Code)
}

func TestListEmptyStore(t *testing.T) {
	engine := newTestServer()
	rec := doJSON(t, engine, http.MethodGet, "/promotions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var promos []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &promos))
	assert.Empty(t, promos)
}

func TestQueryPromotions(t *testing.T) {
	engine := newTestServer()
	require.Equal(t, http.StatusCreated, doJSON(t, engine, http.MethodPost, "/promotions", promoPayload()).Code)

	rec := doJSON(t, engine, http.MethodGet, "/promotions?discount=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var promos []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &promos))
	require.Len(t, promos, 1)
	assert.Equal(t, "foo", promos[0]["name"])

	// every filter at once still matches the single record
	rec = doJSON(t, engine, http.MethodGet,
		"/promotions?name=f&type=PERCENT_DISCOUNT&discount=30&start_date=2022-07-19&end_date=2022-07-20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	promos = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &promos))
	assert.Len(t, promos, 1)

	// applied filters matching nothing is a 404, not an empty list
	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodGet, "/promotions?discount=1", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodGet, "/promotions?name=bar", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodGet, "/promotions?type=X", nil).Code)

	// an unsupported key fails even alongside valid ones
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodGet, "/promotions?name=f&color=red", nil).Code)
}
