package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/streamline-io/streamline/internal/config"
	"github.com/streamline-io/streamline/internal/database"
)

func run(ctx context.Context, configPath string, logger *slog.Logger) (int64, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return 0, err
	}

	// Open applies any pending migrations
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return db.Version(ctx)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	version, err := run(context.Background(), *configPath, logger)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("database schema is up to date", "version", version)
}
