package matching

import (
	"context"

	"go.uber.org/zap"
)

// Match is one entry of a find-by-ingredients answer. Score, CanMake and
// Missing are only filled when scoring was requested.
type Match struct {
	MatchResult
	Scored  bool
	CanMake bool
	Missing []IngredientID
}

// Engine binds an Index to the evaluation strategy and logger used by the
// service layer. An Engine is immutable and safe for concurrent use.
type Engine struct {
	index          *Index
	logger         *zap.Logger
	shards         int
	shardThreshold int
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSharding evaluates catalogs of at least threshold recipes on shards
// goroutines.
func WithSharding(shards, threshold int) Option {
	return func(e *Engine) {
		e.shards = shards
		e.shardThreshold = threshold
	}
}

func NewEngine(ix *Index, opts ...Option) *Engine {
	e := &Engine{
		index:  ix,
		logger: zap.NewNop(),
		shards: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Index() *Index { return e.index }

func (e *Engine) sharded() bool {
	return e.shards > 1 && e.shardThreshold > 0 && e.index.Len() >= e.shardThreshold
}

func (e *Engine) Evaluate(ctx context.Context, req Request) ([]RecipeID, error) {
	if _, ok := ParseMode(string(req.Mode)); !ok {
		e.logger.Warn("unknown match mode, falling back to any",
			zap.String("mode", string(req.Mode)))
	}
	if e.sharded() {
		return ShardedEvaluator{Shards: e.shards}.Evaluate(ctx, e.index, req)
	}
	return Evaluate(e.index, req)
}

// FindByIngredients evaluates req and, when withScore is set, ranks the
// candidates and attaches feasibility. Unscored results stay in catalog
// order.
func (e *Engine) FindByIngredients(ctx context.Context, req Request, withScore bool) ([]Match, error) {
	candidates, err := e.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	if !withScore {
		out := make([]Match, 0, len(candidates))
		for _, id := range candidates {
			entry := e.index.recipes[id]
			out = append(out, Match{MatchResult: MatchResult{
				RecipeID: id,
				Recipe:   entry.record,
				Ordinal:  entry.ordinal,
			}})
		}
		return out, nil
	}

	requested := NewIDSet(req.IngredientIDs)
	ranked, err := Rank(e.index, candidates, requested)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(ranked))
	for _, r := range ranked {
		entry := e.index.recipes[r.RecipeID]
		missing := entry.missing(requested)
		out = append(out, Match{
			MatchResult: r,
			Scored:      true,
			CanMake:     len(missing) == 0,
			Missing:     missing,
		})
	}
	return out, nil
}

func (e *Engine) Makeable(ctx context.Context, available []IngredientID) ([]RecipeID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Makeable(e.index, available)
}

// Assess reports feasibility of one recipe. Like the other entry points it
// rejects an empty ingredient list.
func (e *Engine) Assess(id RecipeID, available []IngredientID) (Feasibility, error) {
	set := NewIDSet(available)
	if set.Len() == 0 {
		return Feasibility{}, ErrNoIngredients
	}
	return Assess(e.index, id, set)
}
