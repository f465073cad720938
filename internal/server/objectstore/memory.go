package objectstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-process Store used in tests and local development.
// Signed URLs are fake but carry the expiry so callers can still reason
// about TTLs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Put(ctx context.Context, key string, body []byte, contentType string, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[key]; exists && !overwrite {
		return fmt.Errorf("put %s: %w", key, ErrAlreadyExists)
	}
	data := make([]byte, len(body))
	copy(data, body)
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.objects, k)
	}
	return nil
}

func (m *MemoryStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.objects[key]; !exists {
		return "", NotFoundError{Key: key}
	}
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("memory://%s?expires=%d", key, expires), nil
}

// Exists reports whether a live object is stored under key.
func (m *MemoryStore) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Get returns the stored bytes and content type for key.
func (m *MemoryStore) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", NotFoundError{Key: key}
	}
	return obj.data, obj.contentType, nil
}

// Len returns the number of live objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
