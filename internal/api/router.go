package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/witslabs/wits-be/internal/api/handlers"
	"github.com/witslabs/wits-be/internal/auth"
	"github.com/witslabs/wits-be/internal/config"
	"github.com/witslabs/wits-be/internal/logger"
	"github.com/witslabs/wits-be/internal/services"
	"github.com/witslabs/wits-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	puzzleService services.PuzzleServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the SPA origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	secret := []byte(cfg.JWTSecret)
	requireAuth := auth.Middleware(secret)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, secret)
	puzzleHandler := handlers.NewPuzzleHandler(puzzleService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// WebSocket activity stream
	r.Get("/ws", wsHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.With(requireAuth).Get("/", authHandler.GetMe)
		})

		r.Route("/puzzles", func(r chi.Router) {
			r.Get("/", puzzleHandler.GetAll)
			r.Get("/featured", puzzleHandler.GetFeatured)
			r.With(requireAuth, auth.RequireAdmin).Post("/", puzzleHandler.Create)
			r.With(requireAuth, auth.RequireAdmin).Post("/rotate-featured", puzzleHandler.RotateFeatured)
			r.Route("/{id}", func(r chi.Router) {
				r.With(requireAuth).Post("/solve", puzzleHandler.Solve)
				r.With(requireAuth, auth.RequireAdmin).Delete("/", puzzleHandler.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(requireAuth).Post("/deduct-xp", userHandler.DeductXP)
		})

		r.Get("/events", eventHandler.GetRecent)
	})

	return r
}
