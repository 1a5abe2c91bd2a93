package router

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anonto42/yatube/internal/auth"
	"github.com/anonto42/yatube/internal/cache"
	"github.com/anonto42/yatube/internal/handlers"
	"github.com/anonto42/yatube/internal/media"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/validators"
)

// Dependencies are the collaborators the routes are wired to.
type Dependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	IndexCache *cache.PageCache[handlers.PostPage]
	Media      media.Store
	Sessions   *auth.Sessions
	Firebase   handlers.TokenVerifier // optional
	Renderer   echo.Renderer
	Logger     *slog.Logger
}

// New builds the echo instance with global middleware and every route.
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = deps.Renderer
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(deps.Logger)

	config.SetupMiddleware(e, deps.Config, deps.Logger)
	SetupRoutes(e, deps)
	return e
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg, log := deps.Config, deps.Logger

	// --- Repositories ---
	userRepo := repositories.NewGormUserRepository(deps.DB)
	groupRepo := repositories.NewGormGroupRepository(deps.DB)
	postRepo := repositories.NewGormPostRepository(deps.DB)
	commentRepo := repositories.NewGormCommentRepository(deps.DB)
	followRepo := repositories.NewGormFollowRepository(deps.DB)

	// --- Unguarded routes ---
	e.GET("/health", handlers.NewHealthHandler(deps.DB).HealthCheck)
	if cfg.MediaBackend == "local" && strings.HasPrefix(cfg.MediaURL, "/") {
		e.Static(strings.TrimRight(cfg.MediaURL, "/"), cfg.MediaRoot)
	}

	// --- Guard chain: identity, then login, then ownership ---
	e.Use(middleware.Identity(deps.Sessions, userRepo, log))
	requireLogin := middleware.RequireLogin()
	postOwner := middleware.PostOwner(postRepo)

	handlers.NewAuthHandler(userRepo, deps.Sessions, deps.Firebase, log).RegisterAuthRoutes(e)
	handlers.RegisterAboutRoutes(e)

	handlers.NewFeedHandler(postRepo, groupRepo, deps.IndexCache, cfg.IndexCacheTTL, log).
		RegisterFeedRoutes(e, requireLogin)
	handlers.NewPostHandler(postRepo, groupRepo, commentRepo, deps.Media, log).
		RegisterPostRoutes(e, requireLogin, postOwner)
	handlers.NewCommentHandler(commentRepo, postRepo).
		RegisterCommentRoutes(e, requireLogin)
	handlers.NewFollowHandler(followRepo, userRepo).
		RegisterFollowRoutes(e, requireLogin)
	handlers.NewUserHandler(userRepo, postRepo, followRepo).
		RegisterProfileRoutes(e)

	log.Debug("routes configured", "count", len(e.Routes()))
}
