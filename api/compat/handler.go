// Package compat exposes the compatibility table lookup over HTTP.
package compat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	corecompat "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// NewHandler serves GET /api/compat?brand=..&model=..[&adapter=..]. Without
// an adapter every one in adapters is queried, in order.
func NewHandler(f corecompat.Finder, adapters []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		brand := strings.TrimSpace(r.URL.Query().Get("brand"))
		mdl := strings.TrimSpace(r.URL.Query().Get("model"))
		if brand == "" || mdl == "" {
			http.Error(w, "brand and model are required", http.StatusBadRequest)
			return
		}
		targets := adapters
		if a := strings.TrimSpace(r.URL.Query().Get("adapter")); a != "" {
			targets = []string{a}
		}
		out := []model.CompatibilityRecord{}
		for _, a := range targets {
			recs, err := f.FindCompatible(r.Context(), a, brand, mdl)
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, corecompat.ErrUnavailable) {
					status = http.StatusServiceUnavailable
				}
				http.Error(w, err.Error(), status)
				return
			}
			out = append(out, recs...)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
