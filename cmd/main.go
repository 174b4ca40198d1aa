package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"chatter/backend/internal/api/handler"
	"chatter/backend/internal/auth"
	"chatter/backend/internal/chathub"
	"chatter/backend/internal/config"
	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Chatter backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)

	registry := chathub.NewRegistry()
	router := chathub.NewRouter(store, registry)
	presence := chathub.NewNotifier(store, registry)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	h := handler.New(store, tokens, registry, router, presence, cfg.TokenTTL, cfg.Production())

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	h.RegisterRoutes(engine)

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        engine,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	registry.CloseAll()
	log.Println("Shutdown complete.")
}
