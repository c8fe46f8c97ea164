// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed writes a YAML fixture into the YaMDb database.
//
// Usage:
//
//	DATABASE_URL=... seed -file data/fixtures/seed.yaml
//
// Migrations are applied first, so seed also works on an empty database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/migration"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/seed"
	"github.com/taibuivan/yamdb/internal/users/account"
)

// seedConfig is the subset of the server configuration seed needs.
type seedConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	FixturePath   string `env:"SEED_FILE" envDefault:"./data/fixtures/seed.yaml"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", constants.AppName+"-seed"))

	cfg, err := env.ParseAs[seedConfig]()
	must(log, err, "load configuration")

	flag.StringVar(&cfg.FixturePath, "file", cfg.FixturePath, "path to the YAML fixture")
	flag.Parse()

	fixture, err := seed.Load(cfg.FixturePath)
	must(log, err, "load fixture")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	categories := reference.NewService(reference.NewPostgresRepository(pool, reference.Categories), reference.Categories, log)
	genres := reference.NewService(reference.NewPostgresRepository(pool, reference.Genres), reference.Genres, log)

	targets := seed.Targets{
		Accounts:   account.NewService(account.NewPostgresRepository(pool), log),
		Categories: categories,
		Genres:     genres,
		Titles:     title.NewService(title.NewPostgresRepository(pool), categories, genres, title.NoRatings{}, clock.System{}, log),
	}

	report, err := seed.Apply(ctx, targets, fixture, log)
	if err != nil {
		log.Error("seed_failed", slog.Any("error", err), slog.Int("created", report.Created))
		pool.Close()
		os.Exit(1)
	}
}

func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure", slog.String("context", context), slog.Any("error", err))
		os.Exit(1)
	}
}
