package api

import (
	"fmt"
	"net/http"

	"github.com/Rrens/coworking-reservation/internal/api/handler"
	customMiddleware "github.com/Rrens/coworking-reservation/internal/api/middleware"
	"github.com/Rrens/coworking-reservation/internal/config"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/Rrens/coworking-reservation/internal/repository/mongodb"
	"github.com/Rrens/coworking-reservation/internal/repository/redis"
	"github.com/Rrens/coworking-reservation/internal/security"
	"github.com/Rrens/coworking-reservation/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// BasePath prefixes every route
const BasePath = "/api/project"

// Services bundles what the HTTP layer needs from the application
type Services struct {
	Auth         *service.AuthService
	Coworkings   *service.CoworkingService
	Reservations *service.ReservationService
	RateLimiter  customMiddleware.Limiter
	DB           handler.Pinger
	Cache        handler.Pinger
}

// NewServices wires repositories and services over MongoDB and Redis
func NewServices(cfg *config.Config, db *mongodb.DB, redisClient *redis.Client) *Services {
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize repositories
	coworkingRepo := mongodb.NewCoworkingRepository(db)
	reservationRepo := mongodb.NewReservationRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	tokenBlacklist := redis.NewTokenBlacklist(redisClient)

	return &Services{
		Auth:         service.NewAuthService(userRepo, reservationRepo, tokenBlacklist, jwtManager),
		Coworkings:   service.NewCoworkingService(coworkingRepo),
		Reservations: service.NewReservationService(reservationRepo, coworkingRepo, cfg.Booking.MaxReservationsPerUser),
		RateLimiter:  redis.NewRateLimiter(redisClient, cfg.Security.RateLimit.Requests, cfg.Security.RateLimit.Window),
		DB:           db,
		Cache:        redisClient,
	}
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, svc *Services) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// Security headers
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(middleware.SetHeader("X-Frame-Options", "SAMEORIGIN"))
	r.Use(middleware.SetHeader("Referrer-Policy", "no-referrer"))
	r.Use(middleware.SetHeader("X-DNS-Prefetch-Control", "off"))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Security.RateLimit.Enabled && svc.RateLimiter != nil {
		r.Use(customMiddleware.NewRateLimitMiddleware(svc.RateLimiter).Limit)
	} else {
		log.Warn().Msg("Rate limiting disabled")
	}

	uploadsURL := BasePath + "/uploads"
	uploadHandler, err := handler.NewUploadHandler(cfg.Upload.Dir, cfg.Upload.MaxSize, uploadsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init uploads: %w", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(svc.Auth, cfg.Auth)
	coworkingHandler := handler.NewCoworkingHandler(svc.Coworkings, security.NewQuerySanitizer())
	reservationHandler := handler.NewReservationHandler(svc.Reservations)

	authMiddleware := customMiddleware.NewAuthMiddleware(svc.Auth, cfg.Auth.CookieName)
	adminOnly := customMiddleware.Authorize(domain.RoleAdmin)
	bookers := customMiddleware.Authorize(domain.RoleUser, domain.RoleAdmin)

	r.Route(BasePath, func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(svc.DB, svc.Cache))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
				r.Delete("/deleteMe", authHandler.DeleteMe)
				r.With(adminOnly).Get("/getallusers", authHandler.ListUsers)
			})
		})

		r.Route("/coworkings", func(r chi.Router) {
			r.Get("/", coworkingHandler.List)
			r.Get("/{id}", coworkingHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate, adminOnly)
				r.Post("/", coworkingHandler.Create)
				r.Put("/{id}", coworkingHandler.Update)
				r.Delete("/{id}", coworkingHandler.Delete)
			})

			r.Route("/{coworkingId}/reservations", func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/", reservationHandler.List)
				r.With(bookers).Post("/", reservationHandler.Create)
			})
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", reservationHandler.List)
			r.Get("/{id}", reservationHandler.Get)
			r.Put("/{id}", reservationHandler.Update)
			r.Delete("/{id}", reservationHandler.Delete)
		})

		r.Route("/uploads", func(r chi.Router) {
			r.With(authMiddleware.Authenticate, adminOnly).Post("/", uploadHandler.UploadPicture)
			r.Handle("/*", uploadHandler.Serve(uploadsURL))
		})

		// Booking shortcut without the /coworkings prefix
		r.With(authMiddleware.Authenticate, bookers).Post("/{coworkingId}/reservations", reservationHandler.Create)
	})

	return r, nil
}
