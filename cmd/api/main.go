package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamline-io/streamline/internal/api"
	"github.com/streamline-io/streamline/internal/auth"
	"github.com/streamline-io/streamline/internal/config"
	"github.com/streamline-io/streamline/internal/database"
	"github.com/streamline-io/streamline/internal/search"
	"github.com/streamline-io/streamline/internal/storage"
	"github.com/streamline-io/streamline/internal/store"
	"github.com/streamline-io/streamline/internal/tmdb"
)

const version = "0.1.0"

var (
	configLoad = config.LoadConfig
	configInit = config.Init
)

// loadConfig reads CONFIG_DIR/app.yml when CONFIG_DIR is set and the
// -config path otherwise.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if os.Getenv("CONFIG_DIR") != "" {
		cfg, err = configInit()
	} else {
		cfg, err = configLoad(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func newAssetStore(ctx context.Context, cfg *config.Config) (*storage.S3Client, error) {
	return storage.NewS3Client(ctx, storage.Options{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Prefix:          cfg.Storage.Prefix,
		PresignTTL:      cfg.Storage.PresignTTL,
	})
}

// initializeAPI wires the store, services and router. The returned func
// releases the database.
func initializeAPI(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*api.Api, func(), error) {
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }

	users := store.New(db)
	catalog := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Timeout, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultSessionTTL)

	deps := api.Deps{
		Accounts: auth.NewService(users, logger),
		Sessions: auth.NewSessions(tokens, auth.CookieConfig{
			Name:   cfg.CookieName,
			Secure: !cfg.IsDevelopment(),
		}, users),
		Search:  search.NewService(catalog, users, logger),
		Catalog: catalog,
	}

	if cfg.StorageEnabled() {
		assets, err := newAssetStore(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.Assets = assets
	}

	a, err := api.NewApi(cfg, deps, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return a, cleanup, nil
}

// syncAvatars uploads the signup avatars from the static dir to the bucket.
func syncAvatars(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.StorageEnabled() {
		return fmt.Errorf("storage.bucket is not configured")
	}
	assets, err := newAssetStore(ctx, cfg)
	if err != nil {
		return err
	}
	results, err := assets.SyncDir(ctx, cfg.Static.Dir, auth.Avatars)
	for _, r := range results {
		logger.Info("uploaded avatar", "key", r.Key, "etag", r.Checksum)
	}
	return err
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	syncOnly := flag.Bool("sync-avatars", false, "Upload avatar images from the static dir to the asset bucket and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *syncOnly {
		if err := syncAvatars(ctx, cfg, logger); err != nil {
			logger.Error("avatar sync failed", "error", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("starting streamline API", "version", version, "config", *configPath)

	a, cleanup, err := initializeAPI(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize API", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := a.Serve(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		cleanup()
		os.Exit(1)
	}
}
