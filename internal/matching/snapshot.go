// Package matching decides which recipes can be cooked from a set of
// available ingredients, scores them by ingredient coverage and reports
// what is missing.
//
// All work happens over an immutable Index built once from a Snapshot of
// the catalog. Nothing in this package performs I/O, so an Index may be
// shared freely between goroutines.
package matching

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

type (
	RecipeID     int64
	IngredientID int64
)

type RecipeRecord struct {
	ID    RecipeID
	Title string
}

type IngredientRecord struct {
	ID       IngredientID
	Name     string
	Category Category
}

type LinkRecord struct {
	RecipeID     RecipeID
	IngredientID IngredientID
	Quantity     string
	IsOptional   bool
}

// Snapshot is a point-in-time copy of the catalog. The order of Recipes
// fixes each recipe's catalog ordinal, and the order of Links fixes the
// ingredient order within a recipe.
type Snapshot struct {
	Recipes     []RecipeRecord
	Ingredients []IngredientRecord
	Links       []LinkRecord
}

// Fingerprint returns a short content hash. Two snapshots with the same
// records in the same order share a fingerprint.
func (s Snapshot) Fingerprint() string {
	h := sha256.New()
	for _, r := range s.Recipes {
		fmt.Fprintf(h, "r|%d|%s\n", r.ID, r.Title)
	}
	for _, i := range s.Ingredients {
		fmt.Fprintf(h, "i|%d|%s|%s\n", i.ID, i.Name, i.Category)
	}
	for _, l := range s.Links {
		fmt.Fprintf(h, "l|%d|%d|%s|%t\n", l.RecipeID, l.IngredientID, l.Quantity, l.IsOptional)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// IDSet is a set of ingredient ids. Requests and pantry contents are
// converted to an IDSet so order and duplicates never matter.
type IDSet map[IngredientID]struct{}

func NewIDSet(ids []IngredientID) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Has(id IngredientID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []IngredientID {
	out := make([]IngredientID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
