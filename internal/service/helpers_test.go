package service_test

import (
	"testing"

	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/metrics"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/testhelpers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	catalog   *testhelpers.Catalog
	catalogs  *service.CatalogService
	snapshots *service.SnapshotService
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	catalog := testhelpers.SeedCatalog(t, db)
	m := metrics.New(prometheus.NewRegistry())
	catalogs := service.NewCatalogService(db, matching.DefaultCategories(), zap.NewNop())
	snapshots := service.NewSnapshotService(catalogs, catalogs.Categories(), m, zap.NewNop())
	catalogs.OnChange(snapshots.Invalidate)
	return &fixture{
		db:        db,
		catalog:   catalog,
		catalogs:  catalogs,
		snapshots: snapshots,
		metrics:   m,
	}
}

func (f *fixture) matchService(cache *service.MatchCache) *service.MatchService {
	return service.NewMatchService(f.snapshots, f.catalogs, cache, f.metrics, zap.NewNop())
}

func titles(recipes []service.RecipeMatch) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Recipe.Title
	}
	return out
}
