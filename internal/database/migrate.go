package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pageza/mesobmatch/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const rollbackSuffix = "_rollback.sql"

// Migration is one forward migration file. Files are named
// VERSION_description.sql with an optional VERSION_description_rollback.sql
// beside them.
type Migration struct {
	Version string
	Name    string
	Path    string
}

// RollbackPath returns the path of the matching rollback script.
func (m Migration) RollbackPath() string {
	return strings.TrimSuffix(m.Path, ".sql") + rollbackSuffix
}

// ListMigrations returns the forward migrations in dir sorted by name.
func ListMigrations(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		out = append(out, Migration{
			Version: strings.SplitN(name, "_", 2)[0],
			Name:    name,
			Path:    filepath.Join(dir, name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SchemaMigrationsDDL creates the bookkeeping table shared with cmd/migrate.
const SchemaMigrationsDDL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(32) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// RunMigrations brings the schema up to date. SQLite, used by tests, is
// migrated from the models; PostgreSQL runs the SQL files in migrationsDir.
func RunMigrations(db *gorm.DB, migrationsDir string, logger *zap.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		logger.Debug("using gorm auto-migration for sqlite")
		return db.AutoMigrate(
			&models.User{},
			&models.Ingredient{},
			&models.Recipe{},
			&models.RecipeIngredient{},
			&models.Instruction{},
		)
	}

	migrations, err := ListMigrations(migrationsDir)
	if err != nil {
		return err
	}

	if err := db.Exec(SchemaMigrationsDDL).Error; err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Table("schema_migrations").Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			logger.Debug("skipping applied migration", zap.String("name", m.Name))
			continue
		}

		content, err := os.ReadFile(m.Path)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", m.Name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Info("applied migration", zap.String("name", m.Name))
	}

	return nil
}
