/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/auth/*        Login and token verification
  /api/analytics/*   Rollup queries (token-gated)
  /api/budgets       Budget mapping read/write (token-gated)
  /api/health        Liveness check
  /*                 Static files (dashboard frontend)

STATIC FILE SERVING:
  Serves the built dashboard from web/dist/ when present, falling back to
  index.html for client-side routing.

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Token middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":    "ok",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.With(h.Auth.Middleware).Get("/verify", h.Verify)
		})

		// Analytics routes (all token-gated)
		r.Route("/analytics", func(r chi.Router) {
			r.Use(h.Auth.Middleware)
			r.Get("/summary", h.GetSummary)
			r.Get("/by-client", h.GetByClient)
			r.Get("/client-budgets", h.GetClientBudgets)
			r.Get("/by-project", h.GetByProject)
			r.Get("/by-user", h.GetByUser)
			r.Get("/projects-with-users", h.GetProjectsWithUsers)
			r.Get("/overview", h.GetOverview)
			r.Get("/clients", h.ListClients)
		})

		// Budget routes (token-gated)
		r.Route("/budgets", func(r chi.Router) {
			r.Use(h.Auth.Middleware)
			r.Get("/", h.GetBudgets)
			r.Put("/", h.SaveBudget)
		})
	})

	// Serve static files (dashboard frontend)
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		exe, _ := os.Executable()
		staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, r.URL.Path)

			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Toggl Insights</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Toggl Insights API</h1>
<p>The dashboard frontend is not built yet. Run <code>cd web && npm install && npm run build</code></p>
<h2>API Endpoints</h2>
<ul>
<li><code>POST /api/auth/login</code> - Obtain a token</li>
<li><a href="/api/health">/api/health</a> - Health check</li>
<li><code>/api/analytics/*</code> - Rollup queries (requires token)</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
