package admin

/*
 Copyright 2026 The maptile-engine Authors.
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at
      http://www.apache.org/licenses/LICENSE-2.0
 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

import (
	"net/http"

	"github.com/tobilg/maptile-engine/internal/cache"
	"github.com/tobilg/maptile-engine/internal/store"
)

// Engine is the subset of a running maptile-engine process the admin
// surface reports on: the loaded geodata store and the asset cache its
// style finish pass consults.
type Engine struct {
	Geodata *store.Geodata
	Assets  *cache.AssetCache
}

// healthResponse is the /health endpoint's JSON body.
type healthResponse struct {
	Status string      `json:"status"`
	Geo    geoStatus   `json:"geodata"`
	Cache  cacheStatus `json:"cache"`
}

type geoStatus struct {
	Nodes     int `json:"nodes"`
	Ways      int `json:"ways"`
	Relations int `json:"relations"`
}

type cacheStatus struct {
	Enabled bool         `json:"enabled"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

func (e *Engine) handleHealth(w http.ResponseWriter, r *http.Request) *appError {
	resp := healthResponse{Status: "ok"}

	if e.Geodata != nil {
		resp.Geo = geoStatus{
			Nodes:     len(e.Geodata.Nodes),
			Ways:      len(e.Geodata.Ways),
			Relations: len(e.Geodata.Relations),
		}
	} else {
		resp.Status = "degraded"
	}

	if e.Assets != nil {
		resp.Cache.Enabled = e.Assets.Enabled()
		if resp.Cache.Enabled {
			stats := e.Assets.Stats()
			resp.Cache.Stats = &stats
		}
	}

	return writeJSON(w, http.StatusOK, resp)
}

// handleStats returns the asset cache's hit/miss/eviction counters.
func (e *Engine) handleStats(w http.ResponseWriter, r *http.Request) *appError {
	if e.Assets == nil || !e.Assets.Enabled() {
		return writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
	}
	return writeJSON(w, http.StatusOK, e.Assets.Stats())
}

// handleCacheClear empties the asset cache.
func (e *Engine) handleCacheClear(w http.ResponseWriter, r *http.Request) *appError {
	if e.Assets == nil || !e.Assets.Enabled() {
		return appErrorBadRequest(nil, "asset cache is disabled")
	}
	e.Assets.Clear()
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "cache cleared"})
}
