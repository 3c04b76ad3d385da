package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	ix := testIndex()

	tests := []struct {
		name      string
		recipe    RecipeID
		requested []IngredientID
		want      float64
	}{
		{"two of three", r1, ids(beef, onion), 66.67},
		{"one of three", r1, ids(beef), 33.33},
		{"optional counts", r1, ids(beef, onion, pepper), 100},
		{"extra requested ingredients do not hurt", r2, ids(beef, onion, salt), 100},
		{"four of five", r4, ids(beef, onion, garlic, tomato), 80},
		{"no overlap", r2, ids(salt), 0},
		{"no ingredients", r3, ids(beef), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(ix, tt.recipe, NewIDSet(tt.requested))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreBounds(t *testing.T) {
	ix := testIndex()
	requests := [][]IngredientID{ids(beef), ids(salt, pepper), ids(beef, onion, pepper), ids(999)}

	for _, rid := range ix.RecipeIDs() {
		refs, _ := ix.IngredientsOf(rid)
		for _, requested := range requests {
			set := NewIDSet(requested)
			score, err := Score(ix, rid, set)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)

			subset := len(refs) > 0
			for _, ref := range refs {
				if !set.Has(ref.ID) {
					subset = false
				}
			}
			assert.Equal(t, subset, score == 100, "recipe %d request %v", rid, requested)
		}
	}
}

func TestScoreUnknownRecipe(t *testing.T) {
	_, err := Score(testIndex(), 404, NewIDSet(ids(beef)))
	assert.ErrorIs(t, err, ErrUnknownEntity)

	var unknown *UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "recipe", unknown.Kind)
	assert.EqualValues(t, 404, unknown.ID)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 66.67, roundScore(200.0/3))
	assert.Equal(t, 33.33, roundScore(100.0/3))
	assert.Equal(t, 12.5, roundScore(12.5))
	assert.Equal(t, 14.29, roundScore(100.0/7))
}

func TestRankOrdersByScore(t *testing.T) {
	ix := testIndex()
	requested := NewIDSet(ids(beef, onion))

	ranked, err := Rank(ix, []RecipeID{r1, r2, r4, r5}, requested)
	require.NoError(t, err)

	var order []RecipeID
	var scores []float64
	for _, r := range ranked {
		order = append(order, r.RecipeID)
		scores = append(scores, r.Score)
	}
	assert.Equal(t, []RecipeID{r2, r1, r4, r5}, order)
	assert.Equal(t, []float64{100, 66.67, 40, 40}, scores)
	assert.Equal(t, "Seared beef", ranked[0].Recipe.Title)
}

func TestRankTieKeepsCandidateOrder(t *testing.T) {
	ix := testIndex()
	requested := NewIDSet(ids(beef, onion, garlic, tomato))

	ranked, err := Rank(ix, []RecipeID{r4, r5}, requested)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, 80.0, ranked[0].Score)
	assert.Equal(t, 80.0, ranked[1].Score)
	assert.Equal(t, r4, ranked[0].RecipeID)
	assert.Equal(t, r5, ranked[1].RecipeID)

	ranked, err = Rank(ix, []RecipeID{r5, r4}, requested)
	require.NoError(t, err)
	assert.Equal(t, r5, ranked[0].RecipeID)
	assert.Equal(t, r4, ranked[1].RecipeID)
}

func TestRankEvaluatedCandidatesIsDeterministic(t *testing.T) {
	ix := testIndex()
	req := Request{IngredientIDs: ids(tomato, garlic, onion, beef), Mode: ModeAny}

	var first []MatchResult
	for i := 0; i < 20; i++ {
		candidates, err := Evaluate(ix, req)
		require.NoError(t, err)
		ranked, err := Rank(ix, candidates, NewIDSet(req.IngredientIDs))
		require.NoError(t, err)
		if first == nil {
			first = ranked
			continue
		}
		assert.Equal(t, first, ranked)
	}
	// r4 and r5 both score 80 and keep catalog order.
	assert.Equal(t, r4, first[1].RecipeID)
	assert.Equal(t, r5, first[2].RecipeID)
}

func TestRankDeduplicatesAndRejectsUnknown(t *testing.T) {
	ix := testIndex()

	ranked, err := Rank(ix, []RecipeID{r2, r2}, NewIDSet(ids(beef)))
	require.NoError(t, err)
	assert.Len(t, ranked, 1)

	_, err = Rank(ix, []RecipeID{r2, 404}, NewIDSet(ids(beef)))
	assert.ErrorIs(t, err, ErrUnknownEntity)
}
