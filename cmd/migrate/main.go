package main

import (
	"context"
	"fmt"
	"os"

	"github.com/taskhub/engine/pkg/config"
	"github.com/taskhub/engine/pkg/database"
	"github.com/taskhub/engine/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatal("migrations need STORE_DRIVER=postgres", zap.String("store", cfg.StoreDriver))
	}

	db, err := database.OpenPostgres(context.Background(), cfg.DatabaseURL, database.Options{Verbose: true})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := runMigrations(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}
