package container

import (
	"context"
	"fmt"

	"library-be/internal/config"
	"library-be/internal/middleware"
	"library-be/internal/repository"
	"library-be/internal/service"
	"library-be/pkg/database"
	"library-be/pkg/logger"
	appoidc "library-be/pkg/oidc"
	"library-be/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	UserService  *service.UserService
	Verifier     middleware.TokenVerifier
	OIDC         *appoidc.Verifier
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not configured")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info("Database pool initialized successfully")

	// Redis is optional; without it user lookups skip the cache tier
	var redisClient *redis.Client
	userCache := service.NewNoopUserCache()
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			userCache = service.NewRedisUserCache(client)
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	verifier, oidcVerifier, err := newTokenVerifier(ctx, cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := &repository.Repositories{
		User:      repository.NewUserRepository(db),
		Authority: repository.NewAuthorityRepository(db),
		Book:      repository.NewBookRepository(db),
		Category:  repository.NewCategoryRepository(db),
		Customer:  repository.NewCustomerRepository(db),
		Address:   repository.NewAddressRepository(db),
	}

	userService := service.NewUserService(repos.User, repos.Authority, userCache, log)

	return &Container{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		RedisClient:  redisClient,
		Repositories: repos,
		UserService:  userService,
		Verifier:     verifier,
		OIDC:         oidcVerifier,
	}, nil
}

// newTokenVerifier wires the OIDC verifier, falling back to the shared-secret
// verifier when no issuer is configured.
func newTokenVerifier(ctx context.Context, cfg *config.Config, log *logger.Logger) (middleware.TokenVerifier, *appoidc.Verifier, error) {
	if cfg.OIDCIssuer != "" {
		v, err := appoidc.NewVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize OIDC verifier: %w", err)
		}
		log.WithField("issuer", cfg.OIDCIssuer).Info("OIDC verifier initialized")
		return v, v, nil
	}

	if cfg.JWTSecret != "" {
		log.Warn("No OIDC issuer configured, verifying tokens with the shared secret")
		return appoidc.NewHSVerifier(cfg.JWTSecret), nil, nil
	}

	return nil, nil, fmt.Errorf("neither OIDC_ISSUER nor JWT_SECRET is configured")
}

// HasOIDC reports whether a discovery-backed identity provider is wired
func (c *Container) HasOIDC() bool {
	return c.OIDC != nil
}

// Close releases every held resource
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Error("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
