/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Toggl Insights reporting server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env / environment configuration
  2. Parse command-line flags (flags win over env)
  3. Initialize SQLite store and seed default budgets
  4. Prepare the admin auth gate
  5. Configure HTTP router and start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: WEB_PORT or 8080)
  -db      SQLite database path (default: DB_PATH or insights.db)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  WEB_PORT, DB_PATH, ADMIN_PASSWORD, JWT_SECRET (see config/config.go).
  A .env file in the working directory is loaded when present.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sybrisoft/toggl-insights/api"
	"github.com/sybrisoft/toggl-insights/config"
	"github.com/sybrisoft/toggl-insights/store/sqlite"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Flags override environment
	port := flag.String("port", cfg.ServerPort, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the default budget mapping on first run only
	if err := store.SeedDefaultBudgets(context.Background()); err != nil {
		log.Printf("Warning: Failed to seed budgets: %v", err)
	}

	// Prepare the admin session gate
	auth, err := api.NewAuth(cfg.AdminPassword, cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	// Create router
	handler := api.NewHandler(store, auth)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%s", *port)
		log.Printf("API available at http://localhost:%s/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
