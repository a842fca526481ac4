package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"library-be/internal/config"
	"library-be/internal/container"
	"library-be/internal/handler"
	"library-be/internal/middleware"
	"library-be/internal/security"
	"library-be/pkg/logger"
	"library-be/pkg/metrics"
)

const serviceName = "library-be"

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.log.Info("Starting graceful shutdown...")

	var shutdownErr error
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			shutdownErr = fmt.Errorf("HTTP server shutdown: %w", err)
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		r.container.Close()
	}

	if shutdownErr != nil {
		return shutdownErr
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting " + serviceName + " server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(registry)

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)

	healthHandler := handler.NewHealthHandler(serviceName, "1.0.0", log)
	healthHandler.AddCheck("database", func(req *http.Request) error {
		return c.DB.Health(req.Context())
	})
	if c.RedisClient != nil {
		healthHandler.AddCheck("redis", func(req *http.Request) error {
			return c.RedisClient.Health(req.Context())
		})
	}

	accountHandler := handler.NewAccountHandler(c.UserService, log)
	userHandler := handler.NewUserHandler(c.UserService, log)
	bookHandler := handler.NewBookHandler(c.Repositories.Book, log)
	categoryHandler := handler.NewCategoryHandler(c.Repositories.Category, log)
	customerHandler := handler.NewCustomerHandler(c.Repositories.Customer, log)
	addressHandler := handler.NewAddressHandler(c.Repositories.Address, log)

	logoutProvider, ok := c.Verifier.(handler.LogoutProvider)
	if !ok {
		log.Warn("Token verifier exposes no end-session endpoint, logout responses will carry an empty URL")
	}
	logoutHandler := handler.NewLogoutHandler(logoutProvider, log)

	r.Get("/health", healthHandler.Check)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// Authorization-code flow endpoints depend on discovery metadata
		if c.HasOIDC() {
			oauthCfg := c.OIDC.OAuth2Config(cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
			authFlowHandler := handler.NewAuthFlowHandler(oauthCfg, log)
			r.Get("/oauth2/authorization", authFlowHandler.Authorize)
			r.Get("/login/oauth2/code", authFlowHandler.Callback)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(c.Verifier, log))

			r.Get("/account", accountHandler.GetAccount)
			r.Post("/logout", logoutHandler.Logout)
			r.Get("/users", userHandler.GetAllPublicUsers)
			r.Get("/authorities", userHandler.GetAuthorities)

			r.Route("/admin/users", func(r chi.Router) {
				r.Use(middleware.RequireAuthority(security.RoleAdmin, log))

				r.Get("/", userHandler.GetAllUsers)
				r.Get("/{login}", userHandler.GetUser)
			})

			r.Route("/books", func(r chi.Router) {
				r.Post("/", bookHandler.CreateBook)
				r.Get("/", bookHandler.GetAllBooks)
				r.Get("/{id}", bookHandler.GetBook)
				r.Put("/{id}", bookHandler.UpdateBook)
				r.Patch("/{id}", bookHandler.PatchBook)
				r.Delete("/{id}", bookHandler.DeleteBook)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", categoryHandler.CreateCategory)
				r.Get("/", categoryHandler.GetAllCategories)
				r.Get("/{id}", categoryHandler.GetCategory)
				r.Put("/{id}", categoryHandler.UpdateCategory)
				r.Patch("/{id}", categoryHandler.PatchCategory)
				r.Delete("/{id}", categoryHandler.DeleteCategory)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Post("/", customerHandler.CreateCustomer)
				r.Get("/", customerHandler.GetAllCustomers)
				r.Get("/{id}", customerHandler.GetCustomer)
				r.Put("/{id}", customerHandler.UpdateCustomer)
				r.Patch("/{id}", customerHandler.PatchCustomer)
				r.Delete("/{id}", customerHandler.DeleteCustomer)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Post("/", addressHandler.CreateAddress)
				r.Get("/", addressHandler.GetAllAddresses)
				r.Get("/{id}", addressHandler.GetAddress)
				r.Put("/{id}", addressHandler.UpdateAddress)
				r.Patch("/{id}", addressHandler.PatchAddress)
				r.Delete("/{id}", addressHandler.DeleteAddress)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"NOT_FOUND","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
