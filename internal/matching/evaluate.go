package matching

import "sort"

type Mode string

const (
	// ModeAny accepts a recipe sharing at least one ingredient with the
	// request.
	ModeAny Mode = "any"
	// ModeAll accepts a recipe whose ingredients (required and optional)
	// include every requested one.
	ModeAll Mode = "all"
	// ModeExact accepts a recipe whose ingredient set equals the request.
	ModeExact Mode = "exact"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeAny, ModeAll, ModeExact:
		return true
	}
	return false
}

// ParseMode maps a client supplied match type onto a Mode. Names are
// compared exactly, so "ALL" is not "all". The empty string selects
// ModeAny. Any other unrecognised value also selects ModeAny and reports
// ok=false so the caller can log the fallback.
func ParseMode(s string) (mode Mode, ok bool) {
	if s == "" {
		return ModeAny, true
	}
	if m := Mode(s); m.Valid() {
		return m, true
	}
	return ModeAny, false
}

type Request struct {
	IngredientIDs []IngredientID
	Mode          Mode
}

// Evaluate returns the recipes qualifying for req, in catalog order. An
// unrecognised mode is evaluated as ModeAny.
func Evaluate(ix *Index, req Request) ([]RecipeID, error) {
	requested := NewIDSet(req.IngredientIDs)
	if requested.Len() == 0 {
		return nil, ErrNoIngredients
	}
	mode, _ := ParseMode(string(req.Mode))

	// Links are de-duplicated at build time, so the number of posting lists
	// a recipe appears in is exactly |recipe ∩ requested|.
	hits := make(map[RecipeID]int)
	for id := range requested {
		for _, rid := range ix.containing[id] {
			hits[rid]++
		}
	}

	out := make([]RecipeID, 0, len(hits))
	for rid, n := range hits {
		if qualifies(mode, n, len(ix.recipes[rid].ingredients), requested.Len()) {
			out = append(out, rid)
		}
	}
	sort.Slice(out, func(i, j int) bool { return ix.ordinal(out[i]) < ix.ordinal(out[j]) })
	return out, nil
}

func qualifies(mode Mode, hits, size, requested int) bool {
	switch mode {
	case ModeAll:
		return hits == requested
	case ModeExact:
		return hits == requested && size == requested
	default:
		return hits > 0
	}
}
