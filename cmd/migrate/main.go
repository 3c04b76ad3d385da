package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/mesobmatch/backend/config"
	"github.com/pageza/mesobmatch/backend/internal/database"
	"github.com/pageza/mesobmatch/backend/internal/logging"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	logger, err := logging.New("info", "console")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	dsn, err := resolveDSN()
	if err != nil {
		logger.Fatal("no database configured", zap.Error(err))
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if _, err := db.Exec(database.SchemaMigrationsDDL); err != nil {
		logger.Fatal("failed to create schema_migrations table", zap.Error(err))
	}

	migrations, err := database.ListMigrations(*dir)
	if err != nil {
		logger.Fatal("failed to list migrations", zap.Error(err))
	}

	if *rollback {
		if err := rollbackLast(db, migrations, logger); err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		return
	}

	applied := 0
	for _, m := range migrations {
		ok, err := apply(db, m)
		if err != nil {
			logger.Fatal("migration failed", zap.String("name", m.Name), zap.Error(err))
		}
		if !ok {
			logger.Debug("migration already applied", zap.String("name", m.Name))
			continue
		}
		applied++
		logger.Info("applied migration", zap.String("name", m.Name))
	}
	logger.Info("all migrations applied", zap.Int("newly_applied", applied))
}

// resolveDSN prefers DATABASE_URL and falls back to the application
// configuration.
func resolveDSN() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", fmt.Errorf("DATABASE_URL is not set and configuration failed to load: %w", err)
	}
	return cfg.DSN(), nil
}

// apply runs m unless it is already recorded. It reports whether the
// migration ran.
func apply(db *sql.DB, m database.Migration) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = $1", m.Version).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	content, err := os.ReadFile(m.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read migration: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to execute migration: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name); err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to record migration: %w", err)
	}
	return true, tx.Commit()
}

func rollbackLast(db *sql.DB, migrations []database.Migration, logger *zap.Logger) error {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	var target *database.Migration
	for i := range migrations {
		if migrations[i].Version == version {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration %s (%s) is not in the migrations directory", version, name)
	}

	content, err := os.ReadFile(target.RollbackPath())
	if err != nil {
		return fmt.Errorf("failed to read rollback file: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute rollback: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rollback: %w", err)
	}

	logger.Info("rolled back migration", zap.String("name", name))
	return nil
}
