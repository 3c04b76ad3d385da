package matching

import (
	"container/heap"
	"context"

	"golang.org/x/sync/errgroup"
)

const cancelCheckInterval = 256

// ShardedEvaluator spreads evaluation over Shards goroutines, each owning
// every Shards-th recipe of the catalog. Per-shard candidates are merged
// back into catalog order before anything is ranked, so the result is
// identical to Evaluate.
type ShardedEvaluator struct {
	Shards int
}

func (s ShardedEvaluator) Evaluate(ctx context.Context, ix *Index, req Request) ([]RecipeID, error) {
	requested := NewIDSet(req.IngredientIDs)
	if requested.Len() == 0 {
		return nil, ErrNoIngredients
	}
	mode, _ := ParseMode(string(req.Mode))

	shards := s.Shards
	if shards > ix.Len() {
		shards = ix.Len()
	}
	if shards < 1 {
		shards = 1
	}

	parts := make([][]RecipeID, shards)
	g, ctx := errgroup.WithContext(ctx)
	for shard := 0; shard < shards; shard++ {
		g.Go(func() error {
			var out []RecipeID
			for i, n := shard, 0; i < len(ix.order); i, n = i+shards, n+1 {
				if n%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				entry := ix.recipes[ix.order[i]]
				if qualifies(mode, entry.hits(requested), len(entry.ingredients), requested.Len()) {
					out = append(out, entry.record.ID)
				}
			}
			parts[shard] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mergeByOrdinal(ix, parts), nil
}

// mergeByOrdinal k-way merges shard outputs, each already in catalog order.
func mergeByOrdinal(ix *Index, parts [][]RecipeID) []RecipeID {
	total := 0
	h := &cursorHeap{ix: ix}
	for _, part := range parts {
		total += len(part)
		if len(part) > 0 {
			h.cursors = append(h.cursors, cursor{ids: part})
		}
	}
	heap.Init(h)

	out := make([]RecipeID, 0, total)
	for h.Len() > 0 {
		c := &h.cursors[0]
		out = append(out, c.ids[c.pos])
		c.pos++
		if c.pos == len(c.ids) {
			heap.Pop(h)
		} else {
			heap.Fix(h, 0)
		}
	}
	return out
}

type cursor struct {
	ids []RecipeID
	pos int
}

type cursorHeap struct {
	ix      *Index
	cursors []cursor
}

func (h cursorHeap) Len() int { return len(h.cursors) }

func (h cursorHeap) Less(i, j int) bool {
	a, b := h.cursors[i], h.cursors[j]
	return h.ix.ordinal(a.ids[a.pos]) < h.ix.ordinal(b.ids[b.pos])
}

func (h cursorHeap) Swap(i, j int) { h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i] }

func (h *cursorHeap) Push(x interface{}) {
	h.cursors = append(h.cursors, x.(cursor))
}

func (h *cursorHeap) Pop() interface{} {
	old := h.cursors
	n := len(old)
	item := old[n-1]
	h.cursors = old[:n-1]
	return item
}
