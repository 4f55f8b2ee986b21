package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tobilg/maptile-engine/internal/cache"
	"github.com/tobilg/maptile-engine/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	g, err := store.NewGeodata(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ac, err := cache.NewAssetCache(8)
	if err != nil {
		t.Fatal(err)
	}
	return &Engine{Geodata: g, Assets: ac}
}

func TestHealthReportsOKWithGeodata(t *testing.T) {
	eng := newTestEngine(t)
	router := NewRouter(eng)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("Status = %q, want ok", body.Status)
	}
}

func TestHealthDegradedWithoutGeodata(t *testing.T) {
	eng := &Engine{}
	router := NewRouter(eng)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", body.Status)
	}
}

func TestCacheClearEmptiesStats(t *testing.T) {
	eng := newTestEngine(t)
	dir := t.TempDir()
	eng.Assets.Exists(dir + "/missing-file")

	router := NewRouter(eng)
	req := httptest.NewRequest(http.MethodDelete, "/cache/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	stats := eng.Assets.Stats()
	if stats.Size != 0 {
		t.Errorf("cache size after clear = %d, want 0", stats.Size)
	}
}

func TestCacheClearRejectsDisabledCache(t *testing.T) {
	eng := &Engine{Assets: cache.NewDisabledAssetCache()}
	router := NewRouter(eng)

	req := httptest.NewRequest(http.MethodDelete, "/cache/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a disabled cache", rec.Code)
	}
}

func TestStatsEndpointReportsDisabledWhenNoCache(t *testing.T) {
	eng := &Engine{Assets: cache.NewDisabledAssetCache()}
	router := NewRouter(eng)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "disabled" {
		t.Errorf("status = %q, want disabled", body["status"])
	}
}
