package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodtrove/internal/client"
)

// MockAuthAPI is a mock implementation of the login and registration API
type MockAuthAPI struct {
	mock.Mock
}

// Login mocks the Login method
func (m *MockAuthAPI) Login(ctx context.Context, req client.LoginRequest) (*client.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.LoginResponse), args.Error(1)
}

// AddUser mocks the AddUser method
func (m *MockAuthAPI) AddUser(ctx context.Context, user client.NewUser) (*client.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.User), args.Error(1)
}
