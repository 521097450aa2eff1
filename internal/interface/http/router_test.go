package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daslab/treeshade/internal/domain/canopy"
	"github.com/daslab/treeshade/internal/domain/pointcloud"
	"github.com/daslab/treeshade/internal/domain/scene"
	"github.com/daslab/treeshade/internal/domain/shadow"
	"github.com/daslab/treeshade/internal/domain/suntable"
	"github.com/daslab/treeshade/internal/infra/config"
	pcstore "github.com/daslab/treeshade/internal/infra/pointcloud"
)

func TestRouter_Health(t *testing.T) {
	rec := performRequest(t, http.MethodGet, "/healthz", "", newRouterUnderTest(t))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	server := newRouterUnderTest(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRouter_SunPositions(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := performRequest(t, http.MethodGet, "/api/v1/sun-positions", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	var table shadow.SunTable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Len(t, table.Seasons, 4)

	rec = performRequest(t, http.MethodGet, "/api/v1/sun-positions/1", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	var season shadow.SeasonResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &season))
	require.Equal(t, 1, season.Season)
	require.Len(t, season.Positions, 15)

	rec = performRequest(t, http.MethodGet, "/api/v1/sun-positions/9", "", server)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(t, http.MethodGet, "/api/v1/sun-positions/summer", "", server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ComputeSunPositions(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := performRequest(t, http.MethodGet, "/api/v1/sun-positions/compute?lat=40.7&lon=-74&date=2022-06-21", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp suntable.ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2022-06-21", resp.Date)
	require.Len(t, resp.Positions, 15)

	rec = performRequest(t, http.MethodGet, "/api/v1/sun-positions/compute?date=June", "", server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ProjectShadow(t *testing.T) {
	server := newRouterUnderTest(t)
	body := `{"origin":{"lat":40.7,"lon":-74},"sun":{"azimuth":180,"altitude":45,"shade":1,"label":"8","visible":true},"samples":[[0,0,10,0.5,1,2]]}`

	rec := performRequest(t, http.MethodPost, "/api/v1/shadows/project", body, server)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp shadow.ProjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "8", resp.Label)
	require.Len(t, resp.Points, 1)
	require.Equal(t, shadow.GroundOffset, resp.Points[0].Z)

	flat := `{"origin":{"lat":40.7,"lon":-74},"sun":{"azimuth":180,"altitude":0,"shade":1,"label":"1"},"samples":[[0,0,10,0.5,1,2]]}`
	rec = performRequest(t, http.MethodPost, "/api/v1/shadows/project", flat, server)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "degenerate_projection", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(t, http.MethodPost, "/api/v1/shadows/project", `{"samples":[[1,2]]}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_EstimateCanopy(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := performRequest(t, http.MethodPost, "/api/v1/canopy/estimate", `{"points":[[0,0,1,0,1,1],[1,1,3,0,1,1]],"halfWidth":5}`, server)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp canopy.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.InDelta(t, 6.56, resp.HeightMeters, 1e-9)

	rec = performRequest(t, http.MethodPost, "/api/v1/canopy/estimate", `{"points":[[50,50,1,0,1,1]],"halfWidth":5}`, server)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "empty_window", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_TreeStats(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := performRequest(t, http.MethodGet, "/api/v1/trees/42/stats?dbh=12", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp canopy.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "42", resp.TreeID)
	require.Equal(t, 3, resp.Count)

	rec = performRequest(t, http.MethodGet, "/api/v1/trees/99/stats?dbh=12", "", server)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(t, http.MethodGet, "/api/v1/trees/42/stats", "", server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PrepareScene(t *testing.T) {
	server := newRouterUnderTest(t)
	body := `{"selection":{"treeId":"42","lat":40.7,"lon":-74,"trunkDiameter":12},"season":1,"activeLayers":["tree-42","shadow-7-0-8"]}`

	rec := performRequest(t, http.MethodPost, "/api/v1/scenes", body, server)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp scene.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "42", resp.TreeID)
	// Season 1 has 11 visible slots plus the tree layer.
	require.Len(t, resp.Layers, 12)
	require.Len(t, resp.Skipped, 4)
	require.Equal(t, []string{"tree-42"}, resp.Diff.Keep)
	require.Equal(t, []string{"shadow-7-0-8"}, resp.Diff.Unmount)
	require.Len(t, resp.Diff.Mount, 11)
	require.NotNil(t, resp.Stats)

	rec = performRequest(t, http.MethodPost, "/api/v1/scenes", `{"selection":{"treeId":"42","lat":40.7,"lon":-74},"season":12}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newRouterUnderTest(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scenes", nil)
	req.Header.Set("Origin", "https://map.example.org")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://map.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), requestIDHeader)
}

func TestRouter_CORSRejectsUnknownOrigin(t *testing.T) {
	server := newRouterUnderTest(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", rec.Header().Get("Vary"))
	require.Equal(t, requestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
}

func performRequest(t *testing.T, method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T) *http.Server {
	t.Helper()
	store := pcstore.NewMemoryStore()
	require.NoError(t, store.Put("42", []pointcloud.Sample{
		{X: 0, Y: 0, Z: 1, Intensity: 0.5, ReturnNumber: 1, NumberOfReturns: 2},
		{X: 1, Y: -1, Z: 4, Intensity: 0.8, ReturnNumber: 1, NumberOfReturns: 3},
		{X: -1, Y: 1, Z: 9, Intensity: 0.2, ReturnNumber: 2, NumberOfReturns: 2},
	}))
	return newRouterWithStore(t, store, nil)
}

// newRouterWithStore builds the full router over store. configure, when set,
// adjusts the HTTP config before the router is assembled.
func newRouterWithStore(t *testing.T, store pointcloud.Store, configure func(*config.HTTPConfig)) *http.Server {
	t.Helper()
	logger := newTestLogger()
	table := shadow.DefaultTable()

	handler := NewHandler(
		shadow.NewService(table, logger),
		canopy.NewService(store, logger),
		scene.NewService(table, store, logger),
		suntable.NewService(suntable.Config{
			Latitude:     40.7,
			Longitude:    -74,
			Location:     time.UTC,
			FirstSlot:    5 * time.Hour,
			SlotInterval: time.Hour,
			Slots:        15,
		}, noonLocator{}, logger),
		logger,
	)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			AllowedOrigins: []string{"https://map.example.org"},
		},
	}
	if configure != nil {
		configure(&cfg.HTTP)
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type noonLocator struct{}

func (noonLocator) Position(time.Time, float64, float64) (float64, float64) {
	return 180, 45
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
