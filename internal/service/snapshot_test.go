package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/metrics"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	loads   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
	snap    matching.Snapshot
}

func (s *stubSource) LoadSnapshot(ctx context.Context) (matching.Snapshot, error) {
	s.loads.Add(1)
	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	if s.release != nil {
		<-s.release
	}
	return s.snap, s.err
}

func smallSnapshot() matching.Snapshot {
	return matching.Snapshot{
		Recipes:     []matching.RecipeRecord{{ID: 1, Title: "Toast"}},
		Ingredients: []matching.IngredientRecord{{ID: 1, Name: "Bread", Category: "grains"}},
		Links: []matching.LinkRecord{
			{RecipeID: 1, IngredientID: 1},
			{RecipeID: 1, IngredientID: 42},
		},
	}
}

func TestSnapshotService_BuildsOnceUntilInvalidated(t *testing.T) {
	src := &stubSource{snap: smallSnapshot()}
	m := metrics.New(prometheus.NewRegistry())
	svc := service.NewSnapshotService(src, nil, m, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Engine(ctx)
	require.NoError(t, err)
	second, err := svc.Engine(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, src.loads.Load())
	assert.Equal(t, 1, first.Index().Len())

	svc.Invalidate()
	third, err := svc.Engine(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.EqualValues(t, 2, src.loads.Load())

	assert.Equal(t, float64(2), testutil.ToFloat64(m.IndexBuildsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.IndexDroppedLinks))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IndexRecipes))
}

func TestSnapshotService_CollapsesConcurrentRebuilds(t *testing.T) {
	src := &stubSource{
		snap:    smallSnapshot(),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := service.NewSnapshotService(src, nil, metrics.New(prometheus.NewRegistry()), zap.NewNop())

	const callers = 8
	engines := make([]*matching.Engine, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := svc.Engine(context.Background())
			assert.NoError(t, err)
			engines[i] = e
		}(i)
	}

	<-src.started
	time.Sleep(100 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.EqualValues(t, 1, src.loads.Load())
	for _, e := range engines {
		assert.Same(t, engines[0], e)
	}
}

func TestSnapshotService_KeepsPreviousEngineOnFailure(t *testing.T) {
	src := &stubSource{snap: smallSnapshot()}
	m := metrics.New(prometheus.NewRegistry())
	svc := service.NewSnapshotService(src, nil, m, zap.NewNop())
	ctx := context.Background()

	good, err := svc.Engine(ctx)
	require.NoError(t, err)

	src.err = errors.New("database is down")
	svc.Invalidate()
	served, err := svc.Engine(ctx)
	require.NoError(t, err)
	assert.Same(t, good, served)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IndexBuildsTotal.WithLabelValues("error")))

	// Still stale, so the next call retries.
	src.err = nil
	fresh, err := svc.Engine(ctx)
	require.NoError(t, err)
	assert.NotSame(t, good, fresh)
}

func TestSnapshotService_FailsWithoutPreviousEngine(t *testing.T) {
	src := &stubSource{err: errors.New("no database")}
	svc := service.NewSnapshotService(src, nil, metrics.New(prometheus.NewRegistry()), zap.NewNop())

	_, err := svc.Engine(context.Background())
	assert.ErrorContains(t, err, "no database")
}

func TestSnapshotService_InvalidatedByCatalogWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.snapshots.Engine(ctx)
	require.NoError(t, err)

	_, _, err = f.catalogs.FindOrCreateIngredient(ctx, "Lentils", "legumes")
	require.NoError(t, err)

	after, err := f.snapshots.Engine(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.Index().Fingerprint(), after.Index().Fingerprint())
	assert.Equal(t, 8, after.Index().Stats().Ingredients)
}
