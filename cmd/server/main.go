package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hardysdecor/antique-tracker/internal/api"
	"github.com/hardysdecor/antique-tracker/internal/auth"
	"github.com/hardysdecor/antique-tracker/internal/config"
	"github.com/hardysdecor/antique-tracker/internal/database"
	"github.com/hardysdecor/antique-tracker/internal/services"
)

func main() {
	cfg := config.Load()

	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.AuthEnabled && (cfg.JWTSecret == "" || cfg.AdminEmail == "" || cfg.AdminPassword == "") {
		log.Fatal("AUTH_ENABLED requires JWT_SECRET, ADMIN_EMAIL and ADMIN_PASSWORD")
	}
	authService := auth.NewService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword, cfg.AuthEnabled)

	ebayService := services.NewEbayService(cfg.EbayAppID)
	identifyService := services.NewIdentifyService(cfg.OpenAIAPIKey, ebayService)
	analyticsService := services.NewAnalyticsService(database.GetDB())
	snapshotService := services.NewSnapshotService(cfg.SnapshotHour)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start snapshot worker in background
	go snapshotService.Start(ctx)

	router := api.SetupRouter(cfg, authService, analyticsService, snapshotService, identifyService, ebayService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
