package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/anonto42/yatube/internal/cache"
	"github.com/anonto42/yatube/internal/logging"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/seed"
	"github.com/anonto42/yatube/pkg/config"
)

func main() {
	file := flag.String("file", "fixtures/groups.yaml", "YAML fixture file with groups and users")
	clearCache := flag.Bool("clear-cache", false, "clear the page cache after seeding")
	flag.Parse()

	if err := run(*file, *clearCache); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(file string, clearCache bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Env, cfg.LogLevel, os.Stderr)
	slog.SetDefault(log)
	ctx := context.Background()

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	fixtures, err := seed.Load(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB(log)
	if err := repositories.Migrate(db.SQL); err != nil {
		return err
	}

	res, err := seed.Apply(ctx,
		repositories.NewGormGroupRepository(db.SQL),
		repositories.NewGormUserRepository(db.SQL),
		fixtures, log)
	if err != nil {
		return err
	}
	log.Info("fixtures applied",
		"groups", res.Groups,
		"users_created", res.UsersCreated,
		"users_skipped", res.UsersSkipped,
	)

	if clearCache {
		// The memory store lives inside the server process.
		if cfg.CacheBackend != "mongo" {
			log.Warn("page cache is in memory; restart the server to drop it")
			return nil
		}
		store := cache.NewMongoStore(db.Mongo.Database(cfg.MongoDatabase))
		if err := store.Clear(ctx); err != nil {
			return err
		}
		log.Info("page cache cleared")
	}
	return nil
}
