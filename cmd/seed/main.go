// Command seed loads a YAML fixture file of post submissions and ingests
// them through the regular write path. Useful for local development and
// demo environments.
//
// Usage: seed -file fixtures.yaml
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/socialpulse/internal/config"
	"github.com/pscheid92/socialpulse/internal/database"
	"github.com/pscheid92/socialpulse/internal/ingest"
	"github.com/pscheid92/socialpulse/internal/logging"
	"github.com/pscheid92/socialpulse/internal/sentiment"
	"gopkg.in/yaml.v3"
)

type fixtureFile struct {
	Posts []ingest.Submission `yaml:"posts"`
}

func main() {
	file := flag.String("file", "fixtures.yaml", "YAML file with post submissions")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	raw, err := os.ReadFile(*file)
	if err != nil {
		slog.Error("Failed to read fixture file", "file", *file, "error", err)
		os.Exit(1)
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		slog.Error("Failed to parse fixture file", "file", *file, "error", err)
		os.Exit(1)
	}
	if len(fixtures.Posts) == 0 {
		slog.Warn("Fixture file contains no posts", "file", *file)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	coordinator := ingest.NewCoordinator(database.NewStore(pool), sentiment.LabelClassifier{}, clockwork.NewRealClock())

	var failed int
	for i, sub := range fixtures.Posts {
		postID, err := coordinator.SubmitPost(ctx, sub)
		if err != nil {
			failed++
			slog.Error("Failed to ingest fixture", "index", i, "username", sub.Username, "error", err)
			continue
		}
		slog.Info("Fixture ingested", "index", i, "post_id", postID.String())
	}

	slog.Info("Seeding finished", "total", len(fixtures.Posts), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
