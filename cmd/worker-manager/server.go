package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"realty-crm/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newHTTPServer serves liveness, readiness and Prometheus metrics. Readiness
// runs every check and reports the failing ones by name.
func newHTTPServer(addr string, checks map[string]func(context.Context) error, log logger.Logger) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		failures := map[string]string{}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				failures[name] = err.Error()
			}
		}

		if len(failures) > 0 {
			log.Warn("readiness check failed", map[string]interface{}{"failures": failures})
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "not_ready", "failures": failures})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	})

	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
