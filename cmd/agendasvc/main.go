package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/agenda-generator/internal/agenda"
	"github.com/example/agenda-generator/internal/config"
	"github.com/example/agenda-generator/internal/httpapi"
	"github.com/example/agenda-generator/internal/persistence/sqlite"
	"github.com/example/agenda-generator/internal/persistence/sqlite/migration"
	"github.com/example/agenda-generator/internal/solver"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := runDatabaseMigrations(ctx, cfg.SQLiteDSN, logger); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	sqliteConfig := migration.DefaultSQLiteConfig(cfg.SQLiteDSN)
	if err := migration.RequireForeignKeys(sqliteConfig); err != nil {
		logger.Error("invalid sqlite configuration", "error", err)
		os.Exit(1)
	}
	pool, err := sqlite.NewConnectionPool(sqliteConfig)
	if err != nil {
		logger.Error("failed to open connection pool", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close connection pool", "error", cerr)
		}
	}()

	roleRepo := sqlite.NewRoleRepository(pool)
	availabilityRepo := sqlite.NewAvailabilityRepository(pool)
	businessRepo := sqlite.NewBusinessRepository(pool)
	agendaRepo := sqlite.NewAgendaRepository(pool)

	idGenerator := func() string { return uuid.NewString() }
	solverDriver := solver.New(cfg.SolverTimeBudget)

	agendaService := agenda.NewServiceWithLogger(
		roleRepo, availabilityRepo, businessRepo, agendaRepo,
		solverDriver, idGenerator, time.Now, logger,
	)

	agendaHandler := httpapi.NewAgendaHandler(agendaService, logger)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Agendas: agendaHandler,
		Middleware: []func(http.Handler) http.Handler{
			httpapi.RequestLogger(logger),
		},
		GenerateMiddleware: []func(http.Handler) http.Handler{
			httpapi.RequireServiceToken(cfg.ServiceTokenHash, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("agenda service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func runDatabaseMigrations(ctx context.Context, databasePath string, logger *slog.Logger) error {
	logger.Info("initializing database migration system")

	sqliteConfig := migration.DefaultSQLiteConfig(databasePath)
	if err := migration.RequireForeignKeys(sqliteConfig); err != nil {
		logger.Error("invalid sqlite configuration", "error", err)
		return fmt.Errorf("sqlite configuration validation failed: %w", err)
	}
	connectionManager := migration.NewConnectionManager(sqliteConfig)

	migrationConfig := migration.DefaultMigrationConfig(migration.SchemaMigrationDir)
	if err := migration.ValidateMigrationConfig(migrationConfig); err != nil {
		logger.Error("invalid migration configuration", "error", err)
		return fmt.Errorf("migration configuration validation failed: %w", err)
	}

	db, err := connectionManager.GetConnection()
	if err != nil {
		logger.Error("failed to establish database connection for migrations", "error", err)
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close migration database connection", "error", cerr)
		}
	}()

	scanner := migration.NewFileScanner()
	executor := migration.NewSQLiteExecutor(db)
	migrationManager := migration.NewMigrationManager(scanner, executor, migrationConfig.MigrationDir)

	logger.Info("migration system initialized",
		"migration_dir", migrationConfig.MigrationDir,
		"database_path", databasePath)

	pendingMigrations, err := migrationManager.GetPendingMigrations(ctx)
	if err != nil {
		logger.Error("failed to scan for pending migrations", "error", err)
		return fmt.Errorf("failed to get pending migrations: %w", err)
	}

	if len(pendingMigrations) == 0 {
		logger.Info("database schema is up to date - no migrations pending")
		return nil
	}

	logger.Info("migration execution starting", "pending_count", len(pendingMigrations))
	if err := migrationManager.RunMigrations(ctx); err != nil {
		logger.Error("migration execution failed", "error", err)
		return fmt.Errorf("migration execution failed: %w", err)
	}

	logger.Info("database migrations completed successfully", "migrations_applied", len(pendingMigrations))
	return nil
}
