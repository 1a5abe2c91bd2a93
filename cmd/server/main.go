package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/yatube/internal/auth"
	"github.com/anonto42/yatube/internal/cache"
	"github.com/anonto42/yatube/internal/handlers"
	"github.com/anonto42/yatube/internal/logging"
	"github.com/anonto42/yatube/internal/media"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/router"
	"github.com/anonto42/yatube/internal/views"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/pkg/firebase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Env, cfg.LogLevel, os.Stdout)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB(log)

	if err := repositories.Migrate(db.SQL); err != nil {
		return err
	}

	store, err := newCacheStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	mediaStore, err := newMediaStore(ctx, cfg)
	if err != nil {
		return err
	}

	deps := router.Dependencies{
		Config:     cfg,
		DB:         db.SQL,
		IndexCache: cache.NewPageCache[handlers.PostPage](store),
		Media:      mediaStore,
		Sessions:   auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction()),
		Logger:     log,
	}

	// Firebase login is optional
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return err
		}
		deps.Firebase = firebaseApp.AuthClient
		log.Info("firebase login enabled")
	}

	renderer, err := views.NewRenderer(mediaStore.URL)
	if err != nil {
		return err
	}
	deps.Renderer = renderer

	e := router.New(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newCacheStore(ctx context.Context, cfg *config.Config, db *config.DB) (cache.Store, error) {
	if cfg.CacheBackend != "mongo" {
		return cache.NewMemoryStore(), nil
	}
	store := cache.NewMongoStore(db.Mongo.Database(cfg.MongoDatabase))
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newMediaStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	if cfg.MediaBackend != "s3" {
		return media.NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
	}
	store, err := media.NewS3Store(ctx, media.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
