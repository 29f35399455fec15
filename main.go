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

	"github.com/mlutsenko/brewbook-be/internal/api"
	"github.com/mlutsenko/brewbook-be/internal/auth"
	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/config"
	"github.com/mlutsenko/brewbook-be/internal/database"
	"github.com/mlutsenko/brewbook-be/internal/logger"
	"github.com/mlutsenko/brewbook-be/internal/monitoring"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/mlutsenko/brewbook-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	auth.Init(cfg.JWTSecret)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up the live activity feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// The admin allowlist is fixed for the lifetime of the process.
	authorizer := authz.New(cfg.AdminEmails)

	// Set up services
	activityService := services.NewActivityService(db, hub)
	userService := services.NewUserService(db, authorizer, activityService)
	sortService := services.NewSortService(db, authorizer, activityService)
	recipeService := services.NewRecipeService(db, authorizer, sortService, activityService)

	// Set up and run the background community digest
	digest, err := monitoring.NewDigest(db, activityService, cfg.DigestCron)
	if err != nil {
		log.Fatalf("Failed to initialize digest job: %v", err)
	}
	go digest.Run()

	// Set up router
	router := api.NewRouter(hub, authorizer, userService, sortService, recipeService, activityService)

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

	digest.Stop()
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
