// Package api provides HTTP handlers for the lumap viewer server.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/brandonlukas/lumap/internal/cache"
	"github.com/brandonlukas/lumap/pkg/colormap"
)

// RouterConfig contains router configuration.
type RouterConfig struct {
	// DataDir is the bundle directory being served.
	DataDir string
	// CORSOrigins lists allowed origins for the viewer frontend.
	CORSOrigins []string
	// Cache holds payloads and query results; optional.
	Cache *cache.Manager
}

// NewRouter creates a new HTTP router for the viewer server.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Bundle file endpoints
	r.Get("/data/{file}", dataFileHandler(cfg))

	// API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/bundle", bundleSummaryHandler(cfg))
		r.Get("/attributes/{name}/legend", legendHandler(cfg))
	})

	return r
}

// dataFileHandler serves raw bundle files, caching payloads between requests.
func dataFileHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "file")
		if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			http.Error(w, "file not found: "+name, http.StatusNotFound)
			return
		}

		key := cache.PayloadKey(cfg.DataDir, name)
		data, ok := cachedPayload(cfg.Cache, key)
		if !ok {
			var err error
			data, err = os.ReadFile(filepath.Join(cfg.DataDir, name))
			if err != nil {
				http.Error(w, "file not found: "+name, http.StatusNotFound)
				return
			}
			if cfg.Cache != nil {
				cfg.Cache.SetPayload(key, data)
			}
		}

		w.Header().Set("Content-Type", contentTypeFor(name))
		w.Write(data)
	}
}

// bundleSummaryHandler reports the bundle's point count and attribute map.
func bundleSummaryHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := "summary:" + cfg.DataDir
		if cfg.Cache != nil {
			if data, ok := cfg.Cache.GetQuery(key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Write(data)
				return
			}
		}

		summary, err := InspectBundle(cfg.DataDir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		data, err := json.Marshal(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if cfg.Cache != nil {
			cfg.Cache.SetQuery(key, data)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// legendHandler maps an attribute's category names to their palette colors.
func legendHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		summary, err := InspectBundle(cfg.DataDir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		attr, ok := summary.Attributes[name]
		if !ok {
			http.Error(w, "attribute not found: "+name, http.StatusNotFound)
			return
		}

		legend := make(map[string]string, len(attr.Names))
		for i, category := range attr.Names {
			legend[category] = colormap.Categories.Hex(i)
		}

		writeJSON(w, legend)
	}
}

func cachedPayload(m *cache.Manager, key string) ([]byte, bool) {
	if m == nil {
		return nil, false
	}
	return m.GetPayload(key)
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
