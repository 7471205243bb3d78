package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/http/handlers"
	httpmw "github.com/staywell/staywell-server/internal/http/middleware"
	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/metrics"
	"github.com/staywell/staywell-server/internal/platform/auth"
	"github.com/staywell/staywell-server/internal/platform/mailer"
	"github.com/staywell/staywell-server/internal/platform/payments"
	"github.com/staywell/staywell-server/internal/repo/postgres"
	"github.com/staywell/staywell-server/internal/repo/redisstore"
	"github.com/staywell/staywell-server/internal/service"
	"github.com/staywell/staywell-server/pkg/config"
	"github.com/staywell/staywell-server/pkg/database"
	"github.com/staywell/staywell-server/pkg/events"
	"github.com/staywell/staywell-server/pkg/logger"
	mw "github.com/staywell/staywell-server/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Session.JWTSecret == "" {
		if cfg.IsProduction() {
			logger.Error("JWT_SECRET must be set in production")
			os.Exit(1)
		}
		cfg.Session.JWTSecret = "dev-only-secret-change-in-prod"
	}

	ctx := context.Background()

	// Apply schema migrations before serving
	if err := database.RunMigrations(cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to Redis (idempotency cache)
	idemStore, err := redisstore.New(cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer idemStore.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	collector := metrics.NewPrometheusCollector()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(pool)
	roomRepo := postgres.NewRoomRepo(pool)
	bookingRepo := postgres.NewBookingRepo(pool)

	// Initialize platform clients
	codec := auth.NewCodec(cfg.Session.JWTSecret, cfg.Session.TokenTTL)
	stripeClient := payments.NewStripeClient(cfg.Stripe.SecretKey)
	mail := buildMailer(cfg)

	// Initialize services
	userService := service.NewUserService(userRepo, eventBus)
	bookingService := service.NewBookingService(bookingRepo, roomRepo, eventBus, mail, collector)
	statsService := service.NewStatsService(bookingRepo, roomRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(codec, cfg.Session.CookieName, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(userService)
	roomHandler := handlers.NewRoomHandler(roomRepo, userRepo)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(stripeClient, eventBus)
	statsHandler := handlers.NewStatsHandler(statsService, collector)

	// Access control chain and rate limiter
	chain := httpmw.NewChain(codec, userRepo, cfg.Session.CookieName, collector)
	tokenLimiter := httpmw.NewRateLimiter(pool, httpmw.RateLimitConfig{
		Requests: 20,
		Window:   time.Minute,
		KeyFunc:  httpmw.ClientIPKeyFunc,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)
	r.Use(mw.HTTPMetrics(collector))

	r.Handle("/metrics", collector.Handler())

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Hello from StayWell Server.."})
	})

	// Public routes
	r.With(tokenLimiter.Middleware()).Post("/jwt", authHandler.IssueToken)
	r.Get("/logout", authHandler.Logout)
	r.Get("/rooms", roomHandler.List)
	r.Get("/room/{id}", roomHandler.Get)
	r.Patch("/room/status/{id}", roomHandler.SetStatus)
	r.Get("/user/{email}", userHandler.Get)
	r.Put("/user", userHandler.Upsert)
	r.Patch("/users/update/{email}", userHandler.Update)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(chain.Authenticate)

		r.Post("/create-payment-intent", paymentHandler.CreateIntent)
		r.With(mw.Idempotency(idemStore)).Post("/booking", bookingHandler.Create)
		r.Get("/my-bookings", bookingHandler.MyBookings)
		r.Delete("/booking/{id}", bookingHandler.Delete)
		r.Get("/guest-stat", statsHandler.Guest)

		// Host routes
		r.Group(func(r chi.Router) {
			r.Use(chain.RequireRole(domain.RoleHost))
			r.Post("/room", roomHandler.Create)
			r.Put("/room/update/{id}", roomHandler.Update)
			r.Delete("/room/{id}", roomHandler.Delete)
			r.Get("/my-listings", roomHandler.MyListings)
			r.Get("/manage-bookings", bookingHandler.ManageBookings)
			r.Get("/host-stat", statsHandler.Host)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(chain.RequireRole(domain.RoleAdmin))
			r.Get("/users", userHandler.List)
			r.Get("/admin-stat", statsHandler.Admin)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting StayWell server", "port", cfg.Server.Port, "env", cfg.App.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch cfg.Email.Driver {
	case "smtp":
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	case "mailersend":
		return mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewDevMailer()
	}
}
