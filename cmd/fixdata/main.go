package main

import (
	"context"
	"os"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/internal/admin"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/logger"
	"github.com/joho/godotenv"
)

const runTimeout = 5 * time.Minute

// fixdata normalizes legacy graph data: property casing, reversed
// relationships and missing order notifications. Every step is idempotent so
// the binary can be re-run safely.
func main() {
	logg := logger.New(logger.Options{ServiceName: "fixdata"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "fixdata",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	graphClient, err := graph.New(ctx, cfg.Neo4j)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap neo4j", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing neo4j driver", err)
		}
	}()

	applied, err := admin.FixData(ctx, graphClient)
	if err != nil {
		logg.Error(ctx, "fixdata run failed", err)
		os.Exit(1)
	}

	done := logg.WithFields(ctx, map[string]any{
		"steps":   applied,
		"applied": len(applied),
	})
	logg.Info(done, "fixdata completed")
}
