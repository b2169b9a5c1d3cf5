package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockReceiptArchiver is a mock implementation of the order receipt archive
type MockReceiptArchiver struct {
	mock.Mock
}

// PutReceipt mocks the PutReceipt method
func (m *MockReceiptArchiver) PutReceipt(ctx context.Context, objectKey string, body []byte) error {
	args := m.Called(ctx, objectKey, body)
	return args.Error(0)
}

// GeneratePresignedURL mocks the GeneratePresignedURL method
func (m *MockReceiptArchiver) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiration)
	return args.String(0), args.Error(1)
}
