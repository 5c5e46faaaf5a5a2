package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"methodquiz/internal/app"
	"methodquiz/internal/cache"
	"methodquiz/internal/config"
	"methodquiz/internal/event"
	"methodquiz/internal/quiz"
	"methodquiz/internal/service"
	"methodquiz/internal/transport/rest"
	"methodquiz/internal/transport/ws"
)

// @title Method Quiz Submission API
// @version 1.0
// @description Stores finished quiz sessions and serves peer answers for review
// @host localhost:8080
// @BasePath /v1
func main() {
	ctx := context.Background()
	cfg := config.Load()

	catalog, err := config.LoadVariants(cfg.VariantsPath)
	if err != nil {
		log.Fatal("Failed to load variants:", err)
	}
	log.Printf("Loaded %d quiz variants", len(catalog))

	stores, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer stores.Close()

	// Redis is optional
	var (
		recentCache cache.RecentCache
		studyCache  cache.StudyCache
	)
	if cfg.RedisURI != "" {
		rdb := redis.NewClient(redisOptions(cfg.RedisURI))
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		recentCache = cache.NewRecentCache(rdb, cfg.RecentLimit)
		studyCache = cache.NewStudyCache(rdb)
	} else {
		log.Println("Warning: REDIS_URI not set, recent submissions are read from the store")
	}

	publisher, err := event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
	if err != nil {
		log.Fatal("Failed to create event publisher:", err)
	}
	defer publisher.Close()

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	studySvc := service.NewStudyService(stores.StudyRepo, studyCache)
	submissionSvc := service.NewSubmissionService(stores.SubmissionRepo, recentCache, catalog, cfg.RecentLimit)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	submissionSvc.SetBroadcaster(wsHub)
	submissionSvc.SetPublisher(publisher)

	seedStudies(ctx, studySvc, cfg.StudiesPath)

	container := &rest.Container{
		AuthService:       authSvc,
		SubmissionService: submissionSvc,
		StudyService:      studySvc,
		Catalog:           catalog,
		WSHub:             wsHub,
		RequireAuth:       cfg.RequireAuth,
		AllowedOrigins:    cfg.AllowedOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Learner auth required: %v", cfg.RequireAuth)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/token")
		log.Println("  POST /v1/submissions")
		log.Println("  GET  /v1/submissions/recent?type={quizType}")
		log.Println("  GET  /v1/studies")
		log.Println("  GET  /v1/studies/{index}")
		log.Println("  GET  /v1/swagger.json")
		log.Println("  WS   /v1/ws/submissions?type={quizType}")
		log.Println("  GET  /health, /metrics")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func redisOptions(uri string) *redis.Options {
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		opts, err := redis.ParseURL(uri)
		if err != nil {
			log.Fatal("Invalid REDIS_URI:", err)
		}
		return opts
	}
	return &redis.Options{Addr: uri}
}

// seedStudies publishes the study file when the store is still empty.
func seedStudies(ctx context.Context, studySvc *service.StudyService, path string) {
	existing, err := studySvc.List(ctx)
	if err != nil {
		log.Printf("Warning: could not list studies: %v", err)
		return
	}
	if len(existing) > 0 {
		log.Printf("Serving %d stored studies", len(existing))
		return
	}

	store, err := quiz.LoadStore(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("No studies stored and %s does not exist; run cmd/seed", path)
			return
		}
		log.Printf("Warning: could not read %s: %v", path, err)
		return
	}
	if _, err := studySvc.Publish(ctx, store.All()); err != nil {
		log.Printf("Warning: could not seed studies: %v", err)
		return
	}
	log.Printf("Seeded %d studies from %s", store.Len(), path)
}
