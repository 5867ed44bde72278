package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gotak/addrdb/pkg/extract"
	"github.com/gotak/addrdb/pkg/manifest"
	"github.com/gotak/addrdb/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	searchQuery string
	searchLimit int
	searchErr   error

	nearbyCategory string
	nearbyBounds   store.Bounds
	nearbyLimit    int
}

func (f *fakeService) Search(query string, limit int) ([]extract.Place, error) {
	f.searchQuery = query
	f.searchLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []extract.Place{{ID: 1, Name: "Joe's Cafe", City: "Springfield"}}, nil
}

func (f *fakeService) Nearby(category string, bounds store.Bounds, limit int) ([]extract.POI, error) {
	f.nearbyCategory = category
	f.nearbyBounds = bounds
	f.nearbyLimit = limit
	return []extract.POI{{ID: 7, Name: "Boots", Category: "PHARMACY"}}, nil
}

func (f *fakeService) Categories() []string {
	return []string{"HOSPITAL", "PHARMACY"}
}

func (f *fakeService) Regions() (manifest.Manifest, error) {
	return manifest.Manifest{Version: "2.0"}, nil
}

func newTestHandler(t *testing.T) (*fakeService, http.Handler) {
	t.Helper()
	service := &fakeService{}
	return service, Handler(service, zap.NewNop())
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		service, handler := newTestHandler(t)
		rec := get(t, handler, "/api/search?q=cafe&limit=5")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "cafe", service.searchQuery)
		assert.Equal(t, 5, service.searchLimit)

		var body struct {
			Data []extract.Place `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Joe's Cafe", body.Data[0].Name)
	})

	t.Run("default limit", func(t *testing.T) {
		service, handler := newTestHandler(t)
		rec := get(t, handler, "/api/search?q=cafe")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, defaultLimit, service.searchLimit)
	})

	t.Run("missing query", func(t *testing.T) {
		_, handler := newTestHandler(t)
		rec := get(t, handler, "/api/search")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "BAD_REQUEST", body.Error.Code)
		assert.Contains(t, body.Error.Message, "required")
	})

	t.Run("limit out of range", func(t *testing.T) {
		_, handler := newTestHandler(t)
		rec := get(t, handler, "/api/search?q=cafe&limit=5000")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		service, handler := newTestHandler(t)
		service.searchErr = errors.New("disk gone")
		rec := get(t, handler, "/api/search?q=cafe")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL", body.Error.Code)
	})
}

func TestNearbyEndpoint(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		service, handler := newTestHandler(t)
		rec := get(t, handler, "/api/nearby?min_lat=51.4&max_lat=51.6&min_lon=-0.2&max_lon=0.0&category=PHARMACY")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "PHARMACY", service.nearbyCategory)
		assert.Equal(t, store.Bounds{MinLat: 51.4, MaxLat: 51.6, MinLon: -0.2, MaxLon: 0.0}, service.nearbyBounds)
		assert.Equal(t, defaultLimit, service.nearbyLimit)
	})

	t.Run("missing coordinate", func(t *testing.T) {
		_, handler := newTestHandler(t)
		rec := get(t, handler, "/api/nearby?min_lat=51.4&max_lat=51.6&min_lon=-0.2")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Error.Message, "max_lon")
	})

	t.Run("non-numeric coordinate", func(t *testing.T) {
		_, handler := newTestHandler(t)
		rec := get(t, handler, "/api/nearby?min_lat=abc&max_lat=51.6&min_lon=-0.2&max_lon=0.0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inverted box", func(t *testing.T) {
		_, handler := newTestHandler(t)
		rec := get(t, handler, "/api/nearby?min_lat=51.6&max_lat=51.4&min_lon=-0.2&max_lon=0.0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, handler := newTestHandler(t)
		rec := get(t, handler, "/api/nearby?min_lat=-95&max_lat=51.6&min_lon=-0.2&max_lon=0.0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoriesEndpoint(t *testing.T) {
	_, handler := newTestHandler(t)
	rec := get(t, handler, "/api/categories")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"HOSPITAL", "PHARMACY"}, body.Data)
}

func TestRegionsEndpoint(t *testing.T) {
	_, handler := newTestHandler(t)
	rec := get(t, handler, "/api/regions")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data manifest.Manifest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2.0", body.Data.Version)
}

func TestHeartbeat(t *testing.T) {
	_, handler := newTestHandler(t)
	rec := get(t, handler, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	_, handler := newTestHandler(t)
	rec := get(t, handler, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecoverPanic(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	recoverPanic(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
