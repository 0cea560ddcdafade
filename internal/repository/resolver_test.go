package repository_test

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paperapi/internal/model"
	"paperapi/internal/repository"
	"paperapi/internal/repository/memory"
	"paperapi/internal/repository/mocks"
)

func seed(t *testing.T, papers ...model.Paper) *memory.PaperMemory {
	t.Helper()
	m := memory.NewPaperMemory()
	for _, p := range papers {
		p := p
		_, err := m.Create(context.Background(), &p)
		require.NoError(t, err)
	}
	return m
}

func TestResolver_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("direct lookup issues no query", func(t *testing.T) {
		ms := new(mocks.MockPaperStore)
		want := &model.Paper{ID: "paper-123", PartitionKey: "paper-123"}
		ms.On("Read", ctx, "paper-123", "paper-123").Return(want, nil)

		got, err := repository.NewResolver(ms, nil).Find(ctx, "paper-123")
		require.NoError(t, err)
		assert.Same(t, want, got)
		ms.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
		ms.AssertExpectations(t)
	})

	t.Run("mismatched partition key found by indexed query", func(t *testing.T) {
		store := seed(t, model.Paper{ID: "paper-123", PartitionKey: "neet", ExamType: "neet"})

		got, err := repository.NewResolver(store, nil).Find(ctx, "paper-123")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "paper-123", got.ID)
		assert.Equal(t, "neet", got.PartitionKey)
	})

	t.Run("transient read error falls back to query", func(t *testing.T) {
		ms := new(mocks.MockPaperStore)
		ms.On("Read", ctx, "p", "p").Return(nil, errors.New("503 service unavailable"))
		ms.On("Query", ctx, repository.Filter{ID: "p"}).Return([]model.Paper{{ID: "p"}}, nil)

		got, err := repository.NewResolver(ms, nil).Find(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "p", got.ID)
		ms.AssertExpectations(t)
	})

	t.Run("broad query prefers case-insensitive exact match", func(t *testing.T) {
		store := seed(t,
			model.Paper{ID: "abcdefgh-AAA", PartitionKey: "x"},
			model.Paper{ID: "abcdefgh-XYZ", PartitionKey: "y"},
		)

		got, err := repository.NewResolver(store, nil).Find(ctx, "abcdefgh-xyz")
		require.NoError(t, err)
		assert.Equal(t, "abcdefgh-XYZ", got.ID)
	})

	t.Run("broad query falls back to first candidate", func(t *testing.T) {
		ms := new(mocks.MockPaperStore)
		ms.On("Read", ctx, "abcdefgh-typo", "abcdefgh-typo").Return(nil, repository.ErrNotFound)
		ms.On("Query", ctx, repository.Filter{ID: "abcdefgh-typo"}).Return([]model.Paper{}, nil)
		ms.On("Query", ctx, repository.Filter{IDContains: "abcdefgh"}).
			Return([]model.Paper{{ID: "abcdefgh-1"}, {ID: "abcdefgh-2"}}, nil)

		got, err := repository.NewResolver(ms, nil).Find(ctx, "abcdefgh-typo")
		require.NoError(t, err)
		assert.Equal(t, "abcdefgh-1", got.ID)
		ms.AssertExpectations(t)
	})

	t.Run("short ids use the whole id as fragment", func(t *testing.T) {
		ms := new(mocks.MockPaperStore)
		ms.On("Read", ctx, "abc", "abc").Return(nil, repository.ErrNotFound)
		ms.On("Query", ctx, repository.Filter{ID: "abc"}).Return([]model.Paper{}, nil)
		ms.On("Query", ctx, repository.Filter{IDContains: "abc"}).Return([]model.Paper{}, nil)

		got, err := repository.NewResolver(ms, nil).Find(ctx, "abc")
		assert.NoError(t, err)
		assert.Nil(t, got)
		ms.AssertExpectations(t)
	})

	t.Run("multibyte ids are cut on a rune boundary", func(t *testing.T) {
		id := "परीक्षा-पत्र-२०२३"
		ms := new(mocks.MockPaperStore)
		ms.On("Read", ctx, id, id).Return(nil, repository.ErrNotFound)
		ms.On("Query", ctx, repository.Filter{ID: id}).Return([]model.Paper{}, nil)
		ms.On("Query", ctx, mock.MatchedBy(func(f repository.Filter) bool {
			return f.IDContains == "परीक्षा-" && utf8.ValidString(f.IDContains)
		})).Return([]model.Paper{}, nil)

		got, err := repository.NewResolver(ms, nil).Find(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, got)
		ms.AssertExpectations(t)
	})

	t.Run("absent everywhere is nil without error", func(t *testing.T) {
		store := seed(t, model.Paper{ID: "something-else"})

		got, err := repository.NewResolver(store, nil).Find(ctx, "non-existent-paper")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("query failure with no result surfaces the backend error", func(t *testing.T) {
		ms := new(mocks.MockPaperStore)
		ms.On("Read", ctx, "p", "p").Return(nil, errors.New("timeout"))
		ms.On("Query", ctx, repository.Filter{ID: "p"}).Return(nil, errors.New("timeout"))
		ms.On("Query", ctx, repository.Filter{IDContains: "p"}).Return([]model.Paper{}, nil)

		got, err := repository.NewResolver(ms, nil).Find(ctx, "p")
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestResolver_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("direct delete", func(t *testing.T) {
		store := seed(t, model.Paper{ID: "p-1"})
		r := repository.NewResolver(store, nil)

		require.NoError(t, r.Delete(ctx, "p-1"))
		got, err := r.Find(ctx, "p-1")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("mismatched partition deleted via any partition", func(t *testing.T) {
		store := seed(t, model.Paper{ID: "p-1", PartitionKey: "legacy"})
		r := repository.NewResolver(store, nil)

		require.NoError(t, r.Delete(ctx, "p-1"))
		got, err := r.Find(ctx, "p-1")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.Zero(t, store.Len())
	})

	t.Run("missing record is not found", func(t *testing.T) {
		store := seed(t)
		err := repository.NewResolver(store, nil).Delete(ctx, "non-existent-paper")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("fuzzy match is never deleted", func(t *testing.T) {
		store := seed(t, model.Paper{ID: "abcdefgh-real", PartitionKey: "x"})
		err := repository.NewResolver(store, nil).Delete(ctx, "abcdefgh-typo")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("final delete error propagates", func(t *testing.T) {
		ms := new(mocks.MockPaperStore)
		ms.On("Delete", ctx, "p", "p").Return(repository.ErrNotFound)
		ms.On("Read", ctx, "p", "p").Return(nil, repository.ErrNotFound)
		ms.On("Query", ctx, repository.Filter{ID: "p"}).Return([]model.Paper{{ID: "p", PartitionKey: "legacy"}}, nil)
		ms.On("Delete", ctx, "p", repository.AnyPartition).Return(errors.New("throttled"))

		err := repository.NewResolver(ms, nil).Delete(ctx, "p")
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
		assert.Contains(t, err.Error(), "throttled")
		ms.AssertExpectations(t)
	})

	t.Run("concurrent removal between lookup and delete is not found", func(t *testing.T) {
		ms := new(mocks.MockPaperStore)
		ms.On("Delete", ctx, "p", "p").Return(errors.New("partition mismatch"))
		ms.On("Read", ctx, "p", "p").Return(nil, repository.ErrNotFound)
		ms.On("Query", ctx, repository.Filter{ID: "p"}).Return([]model.Paper{{ID: "p"}}, nil)
		ms.On("Delete", ctx, "p", repository.AnyPartition).Return(repository.ErrNotFound)

		err := repository.NewResolver(ms, nil).Delete(ctx, "p")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
