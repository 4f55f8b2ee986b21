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
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
)

// Serve starts the admin HTTP surface on addr and blocks until ctx is
// canceled, then shuts the server down gracefully.
func Serve(ctx context.Context, addr string, eng *Engine) error {
	router := NewRouter(eng)
	wrapped := handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), router))

	srv := &http.Server{
		Addr:    addr,
		Handler: wrapped,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("admin: listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
