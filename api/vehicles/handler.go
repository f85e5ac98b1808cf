// Package vehicles serves device recommendations and deployment plans for
// submitted vehicle rows.
package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Service runs recommendation and planning requests.
type Service interface {
	Recommend(ctx context.Context, rows []model.VehicleDescriptor) (app.RecommendRun, error)
	Plan(ctx context.Context, req app.PlanRequest) (app.PlanRun, error)
}

// RecommendRequest is the body of POST /api/recommend.
type RecommendRequest struct {
	Rows []model.VehicleDescriptor `json:"rows"`
}

// NewRecommendHandler returns an HTTP handler for POST /api/recommend.
func NewRecommendHandler(svc Service, maxBody int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RecommendRequest
		if !decode(w, r, maxBody, &req) {
			return
		}
		run, err := svc.Recommend(r.Context(), req.Rows)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, run)
	})
}

// NewPlanHandler returns an HTTP handler for POST /api/plan.
func NewPlanHandler(svc Service, maxBody int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req app.PlanRequest
		if !decode(w, r, maxBody, &req) {
			return
		}
		run, err := svc.Plan(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, run)
	})
}

func decode(w http.ResponseWriter, r *http.Request, maxBody int64, out any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	body := r.Body
	if maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBody)
	}
	if err := json.NewDecoder(body).Decode(out); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, compat.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
