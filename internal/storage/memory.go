package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

type memObject struct {
	data []byte
	info ObjectInfo
}

// MemoryStorage keeps objects in process memory. It backs development mode,
// where objects are served by the API itself under baseURL.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
}

// NewMemory returns an empty MemoryStorage whose presigned URLs are baseURL + "/" + key.
func NewMemory(baseURL string) *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memObject), baseURL: baseURL}
}

var _ Storage = (*MemoryStorage)(nil)

func (m *MemoryStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opt.ContentType,
		LastModified: time.Now().UTC(),
		Metadata:     opt.Metadata,
	}
	m.mu.Lock()
	m.objects[key] = memObject{data: data, info: info}
	m.mu.Unlock()
	return info, nil
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// PresignGet returns the plain object URL; memory objects need no signature.
func (m *MemoryStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	return m.baseURL + "/" + key, nil
}

func (m *MemoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

// Len returns the number of stored objects.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
