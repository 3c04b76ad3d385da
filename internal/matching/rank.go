package matching

import (
	"math"
	"sort"
)

type MatchResult struct {
	RecipeID RecipeID
	Recipe   RecipeRecord
	Score    float64
	Ordinal  int
}

// Score is the share of the recipe's ingredients (required and optional)
// present in requested, as a percentage rounded to two decimals. A recipe
// without ingredients scores 0.
func Score(ix *Index, id RecipeID, requested IDSet) (float64, error) {
	entry, ok := ix.recipes[id]
	if !ok {
		return 0, unknownRecipe(id)
	}
	return entry.score(requested), nil
}

func (e *recipeEntry) score(requested IDSet) float64 {
	if len(e.ingredients) == 0 {
		return 0
	}
	return roundScore(100 * float64(e.hits(requested)) / float64(len(e.ingredients)))
}

// roundScore rounds half away from zero at two decimals.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rank scores every candidate and orders them by score, highest first.
// Equal scores keep the order in which the candidates were given, and a
// candidate listed twice is ranked once.
func Rank(ix *Index, candidates []RecipeID, requested IDSet) ([]MatchResult, error) {
	results := make([]MatchResult, 0, len(candidates))
	seen := make(map[RecipeID]struct{}, len(candidates))
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		entry, ok := ix.recipes[id]
		if !ok {
			return nil, unknownRecipe(id)
		}
		results = append(results, MatchResult{
			RecipeID: id,
			Recipe:   entry.record,
			Score:    entry.score(requested),
			Ordinal:  entry.ordinal,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
