package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SnapshotSource loads a consistent copy of the catalog.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context) (matching.Snapshot, error)
}

// SnapshotService keeps the current matching engine. Engines are immutable
// and swapped whole; Invalidate marks the current one stale so the next
// caller rebuilds it. Concurrent rebuilds collapse into one.
type SnapshotService struct {
	source     SnapshotSource
	categories *matching.CategorySet
	engineOpts []matching.Option
	metrics    *metrics.Metrics
	logger     *zap.Logger

	current atomic.Pointer[matching.Engine]
	stale   atomic.Bool
	group   singleflight.Group
}

func NewSnapshotService(source SnapshotSource, categories *matching.CategorySet, m *metrics.Metrics, logger *zap.Logger, opts ...matching.Option) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		source:     source,
		categories: categories,
		engineOpts: append([]matching.Option{matching.WithLogger(logger)}, opts...),
		metrics:    m,
		logger:     logger,
	}
}

// Engine returns the current engine, building it first when there is none
// or the catalog changed since it was built.
func (s *SnapshotService) Engine(ctx context.Context) (*matching.Engine, error) {
	if e := s.current.Load(); e != nil && !s.stale.Load() {
		return e, nil
	}
	return s.Rebuild(ctx)
}

// Invalidate marks the current engine stale.
func (s *SnapshotService) Invalidate() {
	s.stale.Store(true)
}

// Rebuild loads a fresh snapshot and swaps in a new engine. The load is
// detached from ctx cancellation because other callers may be waiting on
// the same rebuild.
func (s *SnapshotService) Rebuild(ctx context.Context) (*matching.Engine, error) {
	v, err, shared := s.group.Do("rebuild", func() (interface{}, error) {
		return s.rebuild(context.WithoutCancel(ctx))
	})
	if err != nil {
		// Serve the previous engine rather than failing outright.
		if e := s.current.Load(); e != nil {
			s.logger.Warn("catalog snapshot rebuild failed, serving previous index", zap.Error(err))
			return e, nil
		}
		return nil, err
	}
	if shared {
		s.logger.Debug("joined in-flight snapshot rebuild")
	}
	return v.(*matching.Engine), nil
}

func (s *SnapshotService) rebuild(ctx context.Context) (*matching.Engine, error) {
	start := time.Now()
	// Cleared before loading so a write that lands mid-load marks the
	// result stale again.
	s.stale.Store(false)

	snap, err := s.source.LoadSnapshot(ctx)
	if err != nil {
		s.stale.Store(true)
		s.metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	ix := matching.Build(snap, s.categories)
	engine := matching.NewEngine(ix, s.engineOpts...)
	s.current.Store(engine)

	stats := ix.Stats()
	elapsed := time.Since(start)
	s.metrics.IndexBuildsTotal.WithLabelValues("success").Inc()
	s.metrics.IndexBuildDuration.Observe(elapsed.Seconds())
	s.metrics.IndexRecipes.Set(float64(stats.Recipes))
	s.metrics.IndexDroppedLinks.Add(float64(stats.DroppedLinks))

	fields := []zap.Field{
		zap.String("fingerprint", ix.Fingerprint()),
		zap.Int("recipes", stats.Recipes),
		zap.Int("ingredients", stats.Ingredients),
		zap.Int("links", stats.Links),
		zap.Duration("elapsed", elapsed),
	}
	if stats.DroppedLinks > 0 || stats.DuplicateLinks > 0 {
		s.logger.Warn("catalog index built with inconsistent links", append(fields,
			zap.Int("dropped_links", stats.DroppedLinks),
			zap.Int("duplicate_links", stats.DuplicateLinks))...)
	} else {
		s.logger.Info("catalog index built", fields...)
	}
	return engine, nil
}
