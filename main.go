package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/api"
	"github.com/witslabs/wits-be/internal/config"
	"github.com/witslabs/wits-be/internal/database"
	"github.com/witslabs/wits-be/internal/logger"
	"github.com/witslabs/wits-be/internal/mailer"
	"github.com/witslabs/wits-be/internal/monitoring"
	"github.com/witslabs/wits-be/internal/services"
	"github.com/witslabs/wits-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	smtpMailer := mailer.New(cfg.SMTP, cfg.SiteURL)
	userService := services.NewUserService(db, smtpMailer, cfg.AdminEmail)
	eventService := services.NewEventService(db)
	puzzleService := services.NewPuzzleService(db, userService, eventService, hub)

	// Set up and run the daily-challenge rotator
	rotator, err := monitoring.NewFeaturedRotator(puzzleService, eventService, cfg.FeaturedRotationCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize featured puzzle rotator")
	}
	go rotator.Run()

	// Set up router
	router := api.NewRouter(cfg, hub, userService, puzzleService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	rotator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
