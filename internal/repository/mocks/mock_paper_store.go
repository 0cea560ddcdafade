package mocks

import (
	"context"

	"paperapi/internal/model"
	"paperapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockPaperStore struct {
	mock.Mock
}

var _ repository.PaperStore = (*MockPaperStore)(nil)

func (m *MockPaperStore) Read(ctx context.Context, id, partitionKey string) (*model.Paper, error) {
	args := m.Called(ctx, id, partitionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperStore) Query(ctx context.Context, f repository.Filter) ([]model.Paper, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paper), args.Error(1)
}

func (m *MockPaperStore) Delete(ctx context.Context, id, partitionKey string) error {
	args := m.Called(ctx, id, partitionKey)
	return args.Error(0)
}

func (m *MockPaperStore) Create(ctx context.Context, p *model.Paper) (*model.Paper, error) {
	args := m.Called(ctx, p)
	if f, ok := args.Get(0).(func(context.Context, *model.Paper) *model.Paper); ok {
		return f(ctx, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperStore) Replace(ctx context.Context, p *model.Paper) (*model.Paper, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
