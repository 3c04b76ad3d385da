package matching

import (
	"fmt"

	"github.com/pageza/mesobmatch/backend/internal/apperr"
)

var (
	// ErrInvalidRequest is the class of all malformed match requests.
	ErrInvalidRequest = fmt.Errorf("invalid match request: %w", apperr.ErrInvalidInput)

	// ErrNoIngredients is returned for an empty ingredient set, whatever
	// the mode.
	ErrNoIngredients = apperr.New(ErrInvalidRequest, 0, "No ingredients provided")

	ErrUnknownEntity = fmt.Errorf("unknown entity: %w", apperr.ErrNotFound)
)

// UnknownEntityError names the recipe or ingredient a lookup could not
// resolve.
type UnknownEntityError struct {
	Kind string
	ID   int64
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %d", e.Kind, e.ID)
}

func (e *UnknownEntityError) Unwrap() error {
	return ErrUnknownEntity
}

func unknownRecipe(id RecipeID) error {
	return &UnknownEntityError{Kind: "recipe", ID: int64(id)}
}
