package service

import (
	"context"
	"errors"
	"time"

	"github.com/pageza/mesobmatch/backend/internal/apperr"
	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/metrics"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/types"
	"go.uber.org/zap"
)

// EngineProvider hands out the matching engine for the current catalog.
type EngineProvider interface {
	Engine(ctx context.Context) (*matching.Engine, error)
}

// RecipeLoader loads full recipe records in a caller-chosen order.
type RecipeLoader interface {
	GetRecipesByIDs(ctx context.Context, ids []int64) ([]models.Recipe, error)
}

// RecipeMatch is a recipe returned by FindByIngredients. Score, CanMake and
// Missing are only meaningful when Scored is set.
type RecipeMatch struct {
	Recipe  models.Recipe
	Scored  bool
	Score   float64
	CanMake bool
	Missing []string
}

// RecipeFeasibility answers whether one recipe can be cooked from a set of
// ingredients.
type RecipeFeasibility struct {
	RecipeID          int64
	CanMake           bool
	Score             float64
	Missing           []matching.IngredientRecord
	AvailableOptional []matching.IngredientRecord
}

// MatchService runs ingredient-based matching against the current catalog
// snapshot and joins the answers with recipe details from the database.
type MatchService struct {
	engines EngineProvider
	recipes RecipeLoader
	cache   *MatchCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewMatchService(engines EngineProvider, recipes RecipeLoader, cache *MatchCache, m *metrics.Metrics, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		engines: engines,
		recipes: recipes,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

func (s *MatchService) observe(operation string, mode matching.Mode, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrInvalidInput):
		outcome = "invalid"
	case errors.Is(err, apperr.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	s.metrics.MatchRequestsTotal.WithLabelValues(operation, string(mode), outcome).Inc()
	s.metrics.MatchLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// FindByIngredients returns the recipes qualifying under the requested
// match type. With IncludeScore the result is ranked by score and carries
// feasibility; otherwise it is in catalog order.
func (s *MatchService) FindByIngredients(ctx context.Context, req *types.FindByIngredientsRequest) (matches []RecipeMatch, err error) {
	start := time.Now()
	mode, ok := matching.ParseMode(req.MatchType)
	defer func() { s.observe("find_by_ingredients", mode, start, err) }()
	if !ok {
		s.logger.Warn("unknown match type, falling back to any",
			zap.String("match_type", req.MatchType))
	}

	ids := toIngredientIDs(req.IngredientIDs)
	if len(ids) == 0 {
		return nil, matching.ErrNoIngredients
	}

	engine, err := s.engines.Engine(ctx)
	if err != nil {
		return nil, err
	}
	ix := engine.Index()

	key := s.cache.Key(ix.Fingerprint(), mode, matching.NewIDSet(ids).Sorted(), req.IncludeScore)
	entries, hit := s.cache.Get(ctx, key)
	switch {
	case hit:
		s.metrics.CacheHitsTotal.Inc()
	default:
		if s.cache.Enabled() {
			s.metrics.CacheMissesTotal.Inc()
		}
		found, err := engine.FindByIngredients(ctx, matching.Request{
			IngredientIDs: ids,
			Mode:          mode,
		}, req.IncludeScore)
		if err != nil {
			return nil, err
		}
		entries = make([]cachedMatch, 0, len(found))
		for _, m := range found {
			entries = append(entries, cachedMatch{
				RecipeID: int64(m.RecipeID),
				Scored:   m.Scored,
				Score:    m.Score,
				CanMake:  m.CanMake,
				Missing:  ingredientNames(ix, m.Missing),
			})
		}
		s.cache.Set(ctx, key, entries)
	}
	s.metrics.MatchCandidates.Observe(float64(len(entries)))

	recipeIDs := make([]int64, len(entries))
	for i, e := range entries {
		recipeIDs[i] = e.RecipeID
	}
	recipes, err := s.recipes.GetRecipesByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	matches = make([]RecipeMatch, 0, len(entries))
	for _, e := range entries {
		recipe, ok := byID[e.RecipeID]
		if !ok {
			continue
		}
		missing := e.Missing
		if e.Scored && missing == nil {
			missing = []string{}
		}
		matches = append(matches, RecipeMatch{
			Recipe:  recipe,
			Scored:  e.Scored,
			Score:   e.Score,
			CanMake: e.CanMake,
			Missing: missing,
		})
	}

	s.logger.Debug("find by ingredients",
		zap.String("mode", string(mode)),
		zap.Int("requested", len(ids)),
		zap.Int("matches", len(matches)),
		zap.Bool("cache_hit", hit))
	return matches, nil
}

// Makeable returns, in catalog order, every recipe whose required
// ingredients are all available.
func (s *MatchService) Makeable(ctx context.Context, ingredientIDs []int64) (recipes []models.Recipe, err error) {
	start := time.Now()
	defer func() { s.observe("makeable", matching.ModeAny, start, err) }()

	engine, err := s.engines.Engine(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := engine.Makeable(ctx, toIngredientIDs(ingredientIDs))
	if err != nil {
		return nil, err
	}
	recipeIDs := make([]int64, len(ids))
	for i, id := range ids {
		recipeIDs[i] = int64(id)
	}
	return s.recipes.GetRecipesByIDs(ctx, recipeIDs)
}

func (s *MatchService) Feasibility(ctx context.Context, recipeID int64, ingredientIDs []int64) (result *RecipeFeasibility, err error) {
	start := time.Now()
	defer func() { s.observe("feasibility", matching.ModeAny, start, err) }()

	engine, err := s.engines.Engine(ctx)
	if err != nil {
		return nil, err
	}
	f, err := engine.Assess(matching.RecipeID(recipeID), toIngredientIDs(ingredientIDs))
	if err != nil {
		if errors.Is(err, matching.ErrUnknownEntity) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	ix := engine.Index()
	return &RecipeFeasibility{
		RecipeID:          recipeID,
		CanMake:           f.CanMake,
		Score:             f.Score,
		Missing:           ingredientRecords(ix, f.Missing),
		AvailableOptional: ingredientRecords(ix, f.AvailableOptional),
	}, nil
}

// IndexStats reports the shape of the index currently serving requests.
func (s *MatchService) IndexStats(ctx context.Context) (matching.BuildStats, string, error) {
	engine, err := s.engines.Engine(ctx)
	if err != nil {
		return matching.BuildStats{}, "", err
	}
	return engine.Index().Stats(), engine.Index().Fingerprint(), nil
}

func toIngredientIDs(ids []int64) []matching.IngredientID {
	out := make([]matching.IngredientID, len(ids))
	for i, id := range ids {
		out[i] = matching.IngredientID(id)
	}
	return out
}

func ingredientRecords(ix *matching.Index, ids []matching.IngredientID) []matching.IngredientRecord {
	out := make([]matching.IngredientRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := ix.Ingredient(id); ok {
			out = append(out, rec)
		}
	}
	return out
}

func ingredientNames(ix *matching.Index, ids []matching.IngredientID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, rec := range ingredientRecords(ix, ids) {
		out = append(out, rec.Name)
	}
	return out
}
