package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joe-ervin05/pgrest/api"
	"github.com/joe-ervin05/pgrest/config"
	"github.com/joe-ervin05/pgrest/daos"
	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func main() {
	ctx := context.Background()

	pool, err := daos.Connect(ctx, config.Cfg.DatabaseURL, config.Cfg.MaxPoolConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	resolver, err := daos.LoadRelationships(ctx, pool, config.Cfg.DefaultSchema)
	if err != nil {
		log.Fatalf("Failed to load schema relationships: %v", err)
	}

	db := &daos.Database{
		Pool:          pool,
		DefaultSchema: config.Cfg.DefaultSchema,
		MaxDepth:      config.Cfg.MaxQueryDepth,
		Resolver:      resolver,
	}

	app := http.NewServeMux()

	api.Run(app, db)

	// Apply middleware chain: panic recovery -> logging -> timeout -> cors -> rate limit -> auth -> handler
	handler := api.PanicRecoveryMiddleware(
		api.LoggingMiddleware(
			api.TimeoutMiddleware(
				api.CORSMiddleware(
					api.RateLimitMiddleware(
						api.AuthMiddleware(app))))))

	server := &http.Server{
		Addr:    config.Cfg.Port,
		Handler: handler,
	}

	// Start server in goroutine
	go func() {
		fmt.Printf("Listening on port %s\n", config.Cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	pool.Close()

	fmt.Println("Server stopped")
}
