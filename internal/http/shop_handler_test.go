package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/cache"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/service"
)

// --- Mock ---

type ShopServiceMock struct {
	results []cache.ShopResult
	shop    *domain.Shop
	err     error

	gotParams service.SearchParams
}

func (m *ShopServiceMock) Search(_ context.Context, params service.SearchParams) ([]cache.ShopResult, error) {
	m.gotParams = params
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *ShopServiceMock) Get(context.Context, uuid.UUID) (*domain.Shop, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.shop, nil
}

func (m *ShopServiceMock) Create(_ context.Context, shop *domain.Shop) error { return m.err }

func (m *ShopServiceMock) AssignOwner(context.Context, uuid.UUID, *uuid.UUID) error { return m.err }

// --- helpers ---

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- tests ---

func TestSearchShops(t *testing.T) {
	d := 1.2
	mock := &ShopServiceMock{results: []cache.ShopResult{
		{Shop: domain.Shop{ID: uuid.New(), Name: "Bloom TLV"}, DistanceKm: &d},
	}}
	handler := NewShopHandler(mock)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/shops?lat=32.08&lng=34.78&radius_km=5", nil)

	handler.Search(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, mock.gotParams.Lat)
	assert.Equal(t, 32.08, *mock.gotParams.Lat)
	assert.Equal(t, 5.0, mock.gotParams.RadiusKm)

	var response []cache.ShopResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "Bloom TLV", response[0].Shop.Name)
}

func TestSearchShops_LatWithoutLng(t *testing.T) {
	handler := NewShopHandler(&ShopServiceMock{})

	recorder := httptest.NewRecorder()
	handler.Search(recorder, httptest.NewRequest("GET", "/api/v1/shops?lat=32.08", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetShop_NotFound(t *testing.T) {
	handler := NewShopHandler(&ShopServiceMock{err: repository.ErrShopNotFound})

	recorder := httptest.NewRecorder()
	request := withURLParam(httptest.NewRequest("GET", "/api/v1/shops/x", nil), "shop_id", uuid.NewString())

	handler.Get(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetShop_BadID(t *testing.T) {
	handler := NewShopHandler(&ShopServiceMock{})

	recorder := httptest.NewRecorder()
	request := withURLParam(httptest.NewRequest("GET", "/api/v1/shops/nope", nil), "shop_id", "nope")

	handler.Get(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
