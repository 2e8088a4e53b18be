package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/therapymatch-backend/internal/config"
	"github.com/gdugdh24/therapymatch-backend/internal/delivery/http"
	"github.com/gdugdh24/therapymatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/therapymatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/database"
	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/server"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"github.com/gdugdh24/therapymatch-backend/internal/repository/cache"
	"github.com/gdugdh24/therapymatch-backend/internal/repository/postgres"
	"github.com/gdugdh24/therapymatch-backend/internal/usecase/appointment"
	"github.com/gdugdh24/therapymatch-backend/internal/usecase/auth"
	"github.com/gdugdh24/therapymatch-backend/internal/usecase/matching"
	"github.com/gdugdh24/therapymatch-backend/internal/usecase/message"
	"github.com/gdugdh24/therapymatch-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Gemini *gemini.GeminiClient
	Server *server.Server

	AuthUseCase    *auth.AuthUseCase
	ProfileUseCase *profile.ProfileUseCase
	Matcher        *matching.Matcher
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	policy, err := matching.ParseEmptyPreferencePolicy(cfg.Matching.EmptyPreferencePolicy)
	if err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewPostgresDB(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	var profileRepo repository.ProfileRepository = postgres.NewProfileRepository(db)

	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(ctx, &cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, helper cache disabled", zap.Error(err))
		} else {
			c.Redis = redisClient
			profileRepo = cache.NewHelperCache(profileRepo, redisClient, cfg.Matching.HelperCacheTTL, log)
		}
	}

	// A nil *GeminiClient must not reach the explanation service as a
	// non-nil interface.
	var explainer matching.Explainer
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Warn("Gemini client unavailable, using template explanations", zap.Error(err))
		} else {
			c.Gemini = geminiClient
			explainer = geminiClient
		}
	}

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(userRepo, cfg.JWT.AccessSecret, cfg.JWT.AccessTTL(), log.Named("auth"))
	profileUseCase := profile.NewProfileUseCase(profileRepo, log.Named("profile"))
	appointmentUseCase := appointment.NewAppointmentUseCase(appointmentRepo, userRepo, log.Named("appointment"))
	messageUseCase := message.NewMessageUseCase(messageRepo, userRepo, log.Named("message"))
	matcher := matching.NewMatcher(profileRepo, policy)
	explanations := matching.NewExplanationService(profileRepo, matcher.Scorer(), explainer, log.Named("matching"))

	c.AuthUseCase = authUseCase
	c.ProfileUseCase = profileUseCase
	c.Matcher = matcher

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	matchHandler := handler.NewMatchHandler(matcher, explanations, cfg.Matching.DefaultLimit, cfg.Matching.MaxLimit)
	adminHandler := handler.NewAdminHandler(profileUseCase)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUseCase)
	messageHandler := handler.NewMessageHandler(messageUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := http.NewRouter(
		authHandler,
		profileHandler,
		matchHandler,
		adminHandler,
		appointmentHandler,
		messageHandler,
		authMiddleware,
		log.Named("http"),
	)

	c.Server = server.NewServer(&cfg.Server, router.Setup(), log)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			c.Logger.Warn("Error closing Gemini client", zap.Error(err))
		}
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Error closing Redis", zap.Error(err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	_ = c.Logger.Sync()
	return nil
}
