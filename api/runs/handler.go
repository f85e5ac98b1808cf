// Package runs exposes the audit trail of recommendation and planning runs.
package runs

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/audit"
)

// NewHandler returns an HTTP handler listing runs via GET /api/runs. The
// start and end parameters are RFC 3339 timestamps; kind and run_id filter
// exactly. Unparseable timestamps are ignored.
func NewHandler(store audit.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := audit.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.RunID = r.URL.Query().Get("run_id")
		if k := r.URL.Query().Get("kind"); k != "" {
			kind, ok := kindFromString(k)
			if !ok {
				http.Error(w, "unknown kind", http.StatusBadRequest)
				return
			}
			q.Kind = kind
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []audit.RunRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func kindFromString(s string) (audit.Kind, bool) {
	switch audit.Kind(s) {
	case audit.KindRecommend, audit.KindPlan:
		return audit.Kind(s), true
	default:
		return "", false
	}
}
