package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"paperapi/internal/model"
	"paperapi/internal/repository"
)

type key struct {
	partition string
	id        string
}

// PaperMemory is an in-process implementation of repository.PaperStore for local development
// and tests. Its contents live as long as the value does; nothing is persisted.
// It is safe for concurrent use.
type PaperMemory struct {
	mu     sync.RWMutex
	papers map[key]model.Paper
}

// NewPaperMemory creates an empty store.
func NewPaperMemory() *PaperMemory {
	return &PaperMemory{papers: make(map[key]model.Paper)}
}

var _ repository.PaperStore = (*PaperMemory)(nil)

func (m *PaperMemory) Read(_ context.Context, id, partitionKey string) (*model.Paper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.papers[key{partition: partitionKey, id: id}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(p), nil
}

func (m *PaperMemory) Query(_ context.Context, f repository.Filter) ([]model.Paper, error) {
	m.mu.RLock()
	out := make([]model.Paper, 0)
	for _, p := range m.papers {
		if matches(p, f) {
			out = append(out, *clone(p))
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].UploadDate.After(out[j].UploadDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *PaperMemory) Delete(_ context.Context, id, partitionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if partitionKey != repository.AnyPartition {
		k := key{partition: partitionKey, id: id}
		if _, ok := m.papers[k]; !ok {
			return repository.ErrNotFound
		}
		delete(m.papers, k)
		return nil
	}

	deleted := false
	for k := range m.papers {
		if k.id == id {
			delete(m.papers, k)
			deleted = true
		}
	}
	if !deleted {
		return repository.ErrNotFound
	}
	return nil
}

func (m *PaperMemory) Create(_ context.Context, p *model.Paper) (*model.Paper, error) {
	stored := *clone(*p)
	stored.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{partition: stored.PartitionKey, id: stored.ID}
	if _, ok := m.papers[k]; ok {
		return nil, repository.ErrConflict
	}
	m.papers[k] = stored
	return clone(stored), nil
}

func (m *PaperMemory) Replace(_ context.Context, p *model.Paper) (*model.Paper, error) {
	stored := *clone(*p)
	stored.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{partition: stored.PartitionKey, id: stored.ID}
	if _, ok := m.papers[k]; !ok {
		return nil, repository.ErrNotFound
	}
	m.papers[k] = stored
	return clone(stored), nil
}

func (m *PaperMemory) Ping(context.Context) error { return nil }

// Len reports the number of stored records.
func (m *PaperMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.papers)
}

func matches(p model.Paper, f repository.Filter) bool {
	if f.ID != "" && p.ID != f.ID {
		return false
	}
	if f.IDContains != "" && !strings.Contains(p.ID, f.IDContains) {
		return false
	}
	if f.ExamType != "" && p.ExamType != f.ExamType {
		return false
	}
	if f.Year != "" && p.Year != f.Year {
		return false
	}
	return true
}

func clone(p model.Paper) *model.Paper {
	if p.Subjects != nil {
		p.Subjects = append([]string(nil), p.Subjects...)
	}
	if p.LastViewed != nil {
		t := *p.LastViewed
		p.LastViewed = &t
	}
	return &p
}
