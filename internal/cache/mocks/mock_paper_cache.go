package mocks

import (
	"context"

	"paperapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPaperCache struct {
	mock.Mock
}

func (m *MockPaperCache) Get(ctx context.Context, id string) (*model.Paper, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperCache) Set(ctx context.Context, p *model.Paper) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaperCache) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
