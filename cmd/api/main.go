package main

import (
	"context"
	"crypto/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskhub/engine/internal/api"
	"github.com/taskhub/engine/internal/api/handlers"
	"github.com/taskhub/engine/internal/auth"
	"github.com/taskhub/engine/internal/repository"
	"github.com/taskhub/engine/internal/repository/memory"
	"github.com/taskhub/engine/internal/services"
	"github.com/taskhub/engine/pkg/config"
	"github.com/taskhub/engine/pkg/database"
	"github.com/taskhub/engine/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// store bundles the repositories the API serves from.
type store struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	ping  func(ctx context.Context) error
}

func (s store) Ping(ctx context.Context) error { return s.ping(ctx) }

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting taskhub engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("store", cfg.StoreDriver),
	)

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeStore()

	tokens, err := auth.NewTokenCodec(jwtSecret(cfg, log))
	if err != nil {
		log.Fatal("Failed to build token codec", zap.Error(err))
	}

	authSvc := services.NewAuthService(st.users, auth.NewBcryptHasher(), tokens)
	taskSvc := services.NewTaskService(st.tasks)

	router := api.NewRouter(api.Dependencies{
		Tokens:             tokens,
		AuthHandler:        handlers.NewAuthHandler(authSvc),
		TasksHandler:       handlers.NewTasksHandler(taskSvc),
		HealthHandler:      handlers.NewHealthHandler(st),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Development:        cfg.IsDevelopment(),
		MetricsEnabled:     cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		m := memory.NewStore()
		return store{users: m.Users(), tasks: m.Tasks(), ping: m.Ping}, func() {}, nil
	}

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.LogLevel == "debug"})
	if err != nil {
		return store{}, nil, err
	}
	logger.L().Info("Database connected successfully")

	st := store{
		users: repository.NewUserRepository(db),
		tasks: repository.NewTaskRepository(db),
		ping:  func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	return st, func() { closeDB(db) }, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.L().Warn("closing database failed", zap.Error(err))
	}
}

// jwtSecret returns the configured signing secret, or a random one that
// lives only as long as this process.
func jwtSecret(cfg *config.Config, log *zap.Logger) []byte {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret)
	}
	log.Warn("JWT_SECRET is not set: using an ephemeral secret, issued tokens will stop working after a restart and will not be accepted by other instances")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatal("Failed to generate ephemeral JWT secret", zap.Error(err))
	}
	return secret
}
