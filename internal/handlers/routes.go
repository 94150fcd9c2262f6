package handlers

import (
	"context"
	"net/http"
)

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

// NewRouter wires every API route and wraps the mux with request logging
func NewRouter(middleware *Middleware, auth *AuthHandler, children *ChildHandler, growth *GrowthHandler, health HealthCheck) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				respondWithError(w, http.StatusServiceUnavailable, "unavailable", "Health check failed", err)
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public engine routes
	mux.HandleFunc("GET /api/growth/zscore", growth.ZScore)
	mux.HandleFunc("GET /api/growth/median", growth.Median)
	mux.HandleFunc("GET /api/growth/curve", growth.Curve)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(auth.Login))

	// Protected caregiver routes
	mux.HandleFunc("GET /api/children", middleware.RequireAuth(children.ListChildren))
	mux.HandleFunc("POST /api/children", middleware.RequireAuth(children.CreateChild))
	mux.HandleFunc("GET /api/children/{id}", middleware.RequireAuth(children.GetChild))
	mux.HandleFunc("PUT /api/children/{id}", middleware.RequireAuth(children.UpdateChild))
	mux.HandleFunc("DELETE /api/children/{id}", middleware.RequireAuth(children.DeleteChild))
	mux.HandleFunc("GET /api/children/{id}/measurements", middleware.RequireAuth(children.ListMeasurements))
	mux.HandleFunc("POST /api/children/{id}/measurements", middleware.RequireAuth(children.CreateMeasurement))
	mux.HandleFunc("PUT /api/children/{id}/measurements/{measurementId}", middleware.RequireAuth(children.UpdateMeasurement))
	mux.HandleFunc("DELETE /api/children/{id}/measurements/{measurementId}", middleware.RequireAuth(children.DeleteMeasurement))
	mux.HandleFunc("GET /api/children/{id}/chart", middleware.RequireAuth(children.Chart))

	return Logging(mux)
}
