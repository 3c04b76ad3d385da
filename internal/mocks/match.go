package mocks

import (
	"context"

	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockMatchService is a mock implementation of the MatchService interface
type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) FindByIngredients(ctx context.Context, req *types.FindByIngredientsRequest) ([]service.RecipeMatch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeMatch), args.Error(1)
}

func (m *MockMatchService) Makeable(ctx context.Context, ingredientIDs []int64) ([]models.Recipe, error) {
	args := m.Called(ctx, ingredientIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockMatchService) Feasibility(ctx context.Context, recipeID int64, ingredientIDs []int64) (*service.RecipeFeasibility, error) {
	args := m.Called(ctx, recipeID, ingredientIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeFeasibility), args.Error(1)
}

func (m *MockMatchService) IndexStats(ctx context.Context) (matching.BuildStats, string, error) {
	args := m.Called(ctx)
	return args.Get(0).(matching.BuildStats), args.String(1), args.Error(2)
}

var _ service.IMatchService = (*MockMatchService)(nil)
