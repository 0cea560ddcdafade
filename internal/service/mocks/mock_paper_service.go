package mocks

import (
	"context"

	"paperapi/internal/model"
	"paperapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPaperService struct {
	mock.Mock
}

var _ service.PaperService = (*MockPaperService)(nil)

func (m *MockPaperService) Upload(ctx context.Context, in service.UploadInput) (*model.Paper, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) List(ctx context.Context, examType, year string) ([]model.Paper, error) {
	args := m.Called(ctx, examType, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paper), args.Error(1)
}

func (m *MockPaperService) Get(ctx context.Context, id string) (*model.Paper, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaperService) Latest(ctx context.Context, limit int) ([]model.Paper, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paper), args.Error(1)
}

func (m *MockPaperService) Metadata(ctx context.Context) ([]model.ExamMetadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExamMetadata), args.Error(1)
}

func (m *MockPaperService) FileURL(ctx context.Context, id, kind string) (*service.FileLink, error) {
	args := m.Called(ctx, id, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileLink), args.Error(1)
}

func (m *MockPaperService) Track(ctx context.Context, id, kind string) error {
	args := m.Called(ctx, id, kind)
	return args.Error(0)
}

func (m *MockPaperService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
