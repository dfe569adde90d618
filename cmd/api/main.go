// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"fleetboard/internal/audit"
	"fleetboard/internal/booking"
	"fleetboard/internal/config"
	"fleetboard/internal/db"
	"fleetboard/internal/db/migrations"
	"fleetboard/internal/jobs"
	"fleetboard/internal/queue"
	"fleetboard/internal/repository"
	"fleetboard/internal/routes"
	"fleetboard/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	loc := cfg.Location()

	// Create database if it doesn't exist
	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to ensure database exists: %v", err)
	}

	// Initialize database
	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run database migrations
	if err := migrations.RunMigrations(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// S3 is required for video uploads; playlist URLs fall back to the
	// stored video URL when the public base is unset.
	s3cfg, err := config.NewS3Config()
	if err != nil {
		log.Fatalf("Failed to configure S3: %v", err)
	}

	// Redis backs heartbeat throttling. Without it every heartbeat is let
	// through, which is acceptable for small fleets.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	} else {
		log.Println("REDIS_ADDR not set, heartbeat throttling disabled")
	}

	// Playlist update events are optional in the same way.
	var publisher *queue.PlaylistEventPublisher
	if cfg.AMQPURL != "" {
		publisher, err = queue.NewPlaylistEventPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("AMQP unavailable, playlist events disabled: %v", err)
		}
	}

	// Repositories
	campaigns := repository.NewCampaignRepository(database.DB)
	trucks := repository.NewTruckRepository(database.DB)
	playlists := repository.NewPlaylistRepository(database.DB)
	videos := repository.NewVideoRepository(database.DB)
	cities := repository.NewCityRepository(database.DB)
	auditLogs := repository.NewAuditLogRepository(database.DB)

	// Services
	recorder := audit.NewRecorder(auditLogs)
	allocator := booking.NewAllocator(campaigns, nil)
	resolver := services.NewS3VideoResolver(s3cfg)
	compiler := services.NewPlaylistCompiler(campaigns, videos, playlists, resolver, nil)
	liveness := services.NewLivenessTracker(trucks, nil)
	throttle := services.NewHeartbeatThrottle(redisClient, 0)

	// Background jobs
	runner := jobs.NewRunner(campaigns, trucks, playlists, auditLogs, compiler, liveness, publisher, loc, nil)
	scheduler := jobs.NewScheduler(runner, loc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}

	// Create router and setup routes
	router := routes.SetupRoutes(routes.Deps{
		Cfg:       cfg,
		S3:        s3cfg,
		Campaigns: campaigns,
		Trucks:    trucks,
		Playlists: playlists,
		Videos:    videos,
		Cities:    cities,
		Allocator: allocator,
		Compiler:  compiler,
		Liveness:  liveness,
		Throttle:  throttle,
		Recorder:  recorder,
		Jobs:      runner,
	})

	// Create server
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give server 5 seconds to finish current requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	scheduler.Stop()
	recorder.Close()
	if publisher != nil {
		publisher.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Println("Server exiting")
}
