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

	"mentora-backend/internal/config"
	"mentora-backend/internal/database"
	"mentora-backend/internal/handlers"
	"mentora-backend/internal/middleware"
	"mentora-backend/internal/repository"
	"mentora-backend/internal/router"
	"mentora-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Mentora Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Chat History Store ────
	var store services.HistoryStore
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()
		log.Println("✓ PostgreSQL connected")

		if err := database.RunMigrations(pool, "migrations"); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}
		log.Println("✓ Database migrations applied")

		store = repository.NewChatHistoryRepo(pool)
	} else {
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Fatalf("✗ Supabase client initialization failed: %v", err)
		}
		log.Println("✓ Supabase client initialized")

		store = repository.NewSupabaseChatRepo(client, cfg.ChatTable)
	}

	// ──── Step 3: Initialize Completion Client ────
	var completer services.Completer
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		gemini, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMConcurrentReqs)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		completer = gemini
		log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)
	default:
		completer = services.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIModel, cfg.LLMConcurrentReqs)
		log.Printf("✓ OpenAI client initialized (%s)", cfg.OpenAIModel)
	}

	// ──── Step 4: Initialize Rate Limiter ────
	var chatLimiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		chatLimiter = middleware.NewRedisRateLimiter(redisClient, cfg.ChatRateLimitPerMin, time.Minute)
		log.Println("✓ Redis connected")
	} else {
		chatLimiter = middleware.NewRateLimiter(cfg.ChatRateLimitPerMin, time.Minute)
		log.Println("✓ Using in-memory rate limiter")
	}

	var auth *middleware.SupabaseAuth
	if cfg.SupabaseJWTSecret != "" {
		auth = middleware.NewSupabaseAuth(cfg.SupabaseJWTSecret)
		log.Println("✓ Supabase token verification enabled")
	}

	// ──── Step 5: Start HTTP Server ────
	llmTimeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	chatService := services.NewChatService(completer, store, llmTimeout)
	chatHandler := handlers.NewChatHandler(chatService)

	r := router.New(chatHandler, auth, chatLimiter, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: llmTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Mentora Backend ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
