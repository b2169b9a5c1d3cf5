package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodtrove/internal/client"
)

// MockRecipeAPI is a mock implementation of the recipe catalog API
type MockRecipeAPI struct {
	mock.Mock
}

// Recipes mocks the Recipes method
func (m *MockRecipeAPI) Recipes(ctx context.Context) ([]client.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Recipe), args.Error(1)
}

// Recipe mocks the Recipe method
func (m *MockRecipeAPI) Recipe(ctx context.Context, id int) (*client.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Recipe), args.Error(1)
}

// Tags mocks the Tags method
func (m *MockRecipeAPI) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// RecipesByTag mocks the RecipesByTag method
func (m *MockRecipeAPI) RecipesByTag(ctx context.Context, tag string, skip, limit int) (*client.RecipePage, error) {
	args := m.Called(ctx, tag, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.RecipePage), args.Error(1)
}
