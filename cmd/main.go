package main

import (
	"blog-app/db"
	"blog-app/middlewares"
	"blog-app/models"
	"blog-app/routes"
	"blog-app/views"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Load configuration
	config, err := db.LoadDBConfig()
	if err != nil {
		log.Fatalf("Error loading database config: %v", err)
	}

	adminAuth, slugSource := envCheck()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	conn, err := db.InitDB(ctx, config.DBURL)
	if err != nil {
		cancel()
		log.Fatalf("Error initializing database: %v", err)
	}
	defer conn.Close()

	// Migrate the database
	if err := db.Migrate(ctx, conn.DB); err != nil {
		cancel()
		log.Fatalf("Error migrating database: %v", err)
	}
	cancel()

	templates, err := views.Load()
	if err != nil {
		log.Fatalf("Error loading templates: %v", err)
	}

	limiter, stopLimiter := newLimiter()
	defer stopLimiter()

	trustedProxies, err := middlewares.LoadTrustedProxies()
	if err != nil {
		log.Fatalf("Error reading TRUSTED_PROXIES: %v", err)
	}

	// Set up routes and middlewares
	handler := routes.SetupRoutes(routes.Dependencies{
		Posts:          db.NewPostStore(conn, slugSource),
		Views:          templates,
		Assets:         views.Assets(),
		AdminAuth:      adminAuth,
		Cors:           middlewares.LoadCorsConfig(),
		Limiter:        limiter,
		TrustedProxies: trustedProxies,
	})

	addr := ":" + envOr("PORT", "8000")
	srv := &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    100 * time.Second,
		WriteTimeout:   100 * time.Second,
		MaxHeaderBytes: 7500,
		IdleTimeout:    120 * time.Second,
	}

	// Use a wait group to manage graceful shutdown
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()
	log.Printf("Server started on %s", addr)

	// Wait for interrupt signal to gracefully shut down the server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %+v", err)
	}

	wg.Wait()
	log.Println("Server exited gracefully")
}

func envCheck() (middlewares.BasicAuthConfig, models.SlugSource) {
	// Check admin credentials
	adminAuth, err := middlewares.LoadBasicAuthConfig()
	if err != nil {
		log.Fatalf("Error loading admin credentials: %v", err)
	}
	log.Println("Admin credentials environment variables are set.")

	slugSource, err := models.ParseSlugSource(os.Getenv("SLUG_SOURCE"))
	if err != nil {
		log.Fatalf("Error reading SLUG_SOURCE: %v", err)
	}
	log.Printf("Generating slugs from post %s.", slugSource)

	return adminAuth, slugSource
}

// newLimiter uses Redis when REDIS_URL is set so several processes share
// one budget, and an in-memory limiter otherwise.
func newLimiter() (middlewares.Limiter, func()) {
	limit := 120
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Fatalf("Invalid RATE_LIMIT_PER_MINUTE %q", raw)
		}
		limit = n
	}

	redisCfg, err := db.LoadRedisConfig()
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		client, err := db.NewRedisClient(ctx, redisCfg)
		if err != nil {
			log.Fatalf("Error initializing Redis: %v", err)
		}
		return middlewares.NewRedisRateLimiter(client, limit, time.Minute), func() { client.Close() }
	}
	if !errors.Is(err, db.ErrRedisNotConfigured) {
		log.Fatalf("Error loading Redis config: %v", err)
	}

	log.Println("REDIS_URL not set, rate limiting in memory.")
	rl := middlewares.NewRateLimiter(limit, time.Minute, 2*time.Minute)
	return rl, rl.Stop
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
