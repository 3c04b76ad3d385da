package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/mesobmatch/backend/config"
	"github.com/pageza/mesobmatch/backend/internal/database"
	"github.com/pageza/mesobmatch/backend/internal/logging"
	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/seed"
	"github.com/pageza/mesobmatch/backend/internal/service"
)

func main() {
	file := flag.String("file", "", "Workbook (.xlsx) to import")
	author := flag.String("author", "", "Email of the user imported recipes are attributed to")
	export := flag.String("export", "", "Write the current catalog to this .xlsx path instead of importing")
	flag.Parse()

	if (*file == "") == (*export == "") {
		log.Fatal("exactly one of -file or -export is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	categories, err := matching.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		logger.Fatal("failed to load ingredient categories", zap.Error(err))
	}
	catalog := service.NewCatalogService(db, categories, logger.Named("catalog"))

	if *export != "" {
		ingredients, err := catalog.ListIngredients(ctx, service.IngredientFilter{})
		if err != nil {
			logger.Fatal("failed to list ingredients", zap.Error(err))
		}
		recipes, err := catalog.ListRecipes(ctx, "")
		if err != nil {
			logger.Fatal("failed to list recipes", zap.Error(err))
		}

		out, err := os.Create(*export)
		if err != nil {
			logger.Fatal("failed to create export file", zap.Error(err))
		}
		if _, err := seed.FromCatalog(ingredients, recipes).WriteTo(out); err != nil {
			out.Close()
			logger.Fatal("failed to write workbook", zap.Error(err))
		}
		if err := out.Close(); err != nil {
			logger.Fatal("failed to close export file", zap.Error(err))
		}
		logger.Info("catalog exported",
			zap.String("path", *export),
			zap.Int("ingredients", len(ingredients)),
			zap.Int("recipes", len(recipes)))
		return
	}

	if *author == "" {
		logger.Fatal("-author is required when importing")
	}
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", strings.ToLower(*author)).First(&user).Error; err != nil {
		logger.Fatal("author not found", zap.String("email", *author), zap.Error(err))
	}

	in, err := os.Open(*file)
	if err != nil {
		logger.Fatal("failed to open workbook", zap.Error(err))
	}
	defer in.Close()

	wb, err := seed.ReadWorkbook(in)
	if err != nil {
		logger.Fatal("failed to read workbook", zap.Error(err))
	}

	res, err := seed.Apply(ctx, catalog, user.ID, wb, logger.Named("seed"))
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("catalog imported",
		zap.Int("ingredients_created", res.IngredientsCreated),
		zap.Int("ingredients_existing", res.IngredientsExisting),
		zap.Int("recipes_created", res.RecipesCreated),
		zap.Int("recipes_skipped", res.RecipesSkipped))
}
