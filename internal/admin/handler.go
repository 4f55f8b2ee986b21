// Package admin exposes an introspection-only HTTP surface over a running
// engine: health, cache statistics, and cache clearing. It deliberately
// serves no tiles — the tile-image-serving front end is out of scope for
// this engine, per the rule-engine/index core it wraps.
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
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/theckman/httpforwarded"

	log "github.com/sirupsen/logrus"
)

const contentTypeJSON = "application/json"

// appError carries an HTTP status alongside the underlying error, the way
// the engine's handlers report failures without panicking.
type appError struct {
	Err     error
	Message string
	Code    int
}

// appHandler adapts a handler that may fail into an http.Handler, logging
// and translating any appError into its HTTP status.
type appHandler func(w http.ResponseWriter, r *http.Request) *appError

func (fn appHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if e := fn(w, r); e != nil {
		log.WithError(e.Err).WithFields(log.Fields{
			"client": clientAddress(r),
			"path":   r.URL.Path,
			"status": e.Code,
		}).Warn("admin: request failed")
		http.Error(w, e.Message, e.Code)
	}
}

func appErrorBadRequest(err error, msg string) *appError {
	return &appError{Err: err, Message: msg, Code: http.StatusBadRequest}
}

// clientAddress prefers the RFC 7239 Forwarded header (as a reverse proxy
// in front of the admin surface would set) over the raw socket address.
func clientAddress(r *http.Request) string {
	if fwd, err := httpforwarded.ParseFromRequest(r); err == nil && len(fwd["for"]) > 0 {
		return fwd["for"][0]
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) *appError {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return &appError{Err: err, Message: "failed to encode response", Code: http.StatusInternalServerError}
	}
	return nil
}

// NewRouter builds the admin mux.Router wired against eng.
func NewRouter(eng *Engine) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/health", appHandler(eng.handleHealth)).Methods(http.MethodGet)
	r.Handle("/stats", appHandler(eng.handleStats)).Methods(http.MethodGet)
	r.Handle("/cache/clear", appHandler(eng.handleCacheClear)).Methods(http.MethodDelete)
	return r
}
