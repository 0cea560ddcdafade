package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, r io.Reader, name, contentType string, size int64) (string, error) {
	args := m.Called(ctx, r, name, contentType, size)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) DeleteByURL(ctx context.Context, rawURL string) error {
	args := m.Called(ctx, rawURL)
	return args.Error(0)
}

func (m *MockBlobStore) SignedURL(ctx context.Context, rawURL string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, rawURL, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Owns(rawURL string) bool {
	args := m.Called(rawURL)
	return args.Bool(0)
}
