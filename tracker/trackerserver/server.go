// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package trackerserver

import (
	"net/http"

	"github.com/andres-erbsen/clock"
	"github.com/go-chi/chi"
	"github.com/gorilla/handlers"
	"github.com/uber-go/tally"

	"github.com/hiveswarm/hive/tracker/swarmstore"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}

// Handler builds the tracker's HTTP router: GET /announce and GET /health,
// with access logging and a request-count metric on every route.
func Handler(config Config, registry swarmstore.SwarmRegistry, clk clock.Clock, stats tally.Scope) http.Handler {
	config.applyDefaults()

	announce := &announceHandler{config: config, registry: registry, clk: clk}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return countingMiddleware(stats, next)
	})
	r.Get("/announce", announce.ServeHTTP)
	r.Get("/health", healthHandler)

	return handlers.CombinedLoggingHandler(logWriter{}, r)
}

// countingMiddleware increments a per-route request counter.
func countingMiddleware(stats tally.Scope, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats.Tagged(map[string]string{"path": r.URL.Path}).Counter("requests").Inc(1)
		next.ServeHTTP(w, r)
	})
}
