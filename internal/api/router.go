package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cipherbox/cipherbox/internal/proxy"
	"github.com/cipherbox/cipherbox/internal/resolver"
	"github.com/cipherbox/cipherbox/internal/store"
)

// Deps holds all dependencies required to build the router.
type Deps struct {
	Media      store.MediaStoreIface
	Tags       store.TagStoreIface
	Categories *store.CategoryStore
	Options    *store.APIOptionStore
	Reconciler *resolver.Reconciler
	Registry   *proxy.Registry

	// PreferredQuality steers playable URL extraction, e.g. "720p".
	PreferredQuality string
}

// NewRouter creates the chi router serving the JSON API, health check, and
// Prometheus metrics.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		registerMediaRoutes(r, deps)
		registerTagRoutes(r, deps.Tags, deps.Media)
		registerCategoryRoutes(r, deps.Categories, deps.Media)
		registerOptionRoutes(r, deps.Options)
	})

	return r
}

// jsonContentType sets Content-Type: application/json on all API responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
