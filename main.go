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

	"github.com/dotatracker/dota-tracker-be/internal/api"
	"github.com/dotatracker/dota-tracker-be/internal/api/handlers"
	"github.com/dotatracker/dota-tracker-be/internal/config"
	"github.com/dotatracker/dota-tracker-be/internal/database"
	"github.com/dotatracker/dota-tracker-be/internal/hashing"
	"github.com/dotatracker/dota-tracker-be/internal/logger"
	"github.com/dotatracker/dota-tracker-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services and handlers
	accountService := services.NewAccountService(db, hashing.NewBcryptHasher())
	accountHandler := handlers.NewAccountHandler(accountService, []byte(cfg.JWTSecret))

	// Set up router
	router := api.NewRouter(accountHandler, cfg.AllowedOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
