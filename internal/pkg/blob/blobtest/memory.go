// Package blobtest provides an in-memory blob store for handler tests.
package blobtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/soldertec/site/internal/pkg/blob"
)

// Stored is one object held by Memory.
type Stored struct {
	Data        []byte
	ContentType string
}

// Memory implements the blob operations used by the site. Set Fail to make
// every call return it.
type Memory struct {
	BaseURL string
	Fail    error

	mu      sync.Mutex
	objects map[string]Stored
}

func NewMemory() *Memory {
	return &Memory{BaseURL: "https://cdn.test/blog-images", objects: map[string]Stored{}}
}

func (m *Memory) URL(key string) string { return m.BaseURL + "/" + key }

func (m *Memory) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) (blob.Object, error) {
	if m.Fail != nil {
		return blob.Object{}, m.Fail
	}
	key, err := blob.CleanKey(key)
	if err != nil {
		return blob.Object{}, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return blob.Object{}, err
	}
	m.mu.Lock()
	m.objects[key] = Stored{Data: data, ContentType: contentType}
	m.mu.Unlock()
	return blob.Object{Key: key, URL: m.URL(key), Size: int64(len(data))}, nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	if m.Fail != nil {
		return false, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if m.Fail != nil {
		return m.Fail
	}
	key, err := blob.CleanKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// PresignGet returns a fake signed URL; missing keys yield blob.ErrNotFound.
func (m *Memory) PresignGet(_ context.Context, key string, ttl time.Duration, _ string) (string, error) {
	if m.Fail != nil {
		return "", m.Fail
	}
	m.mu.Lock()
	_, ok := m.objects[key]
	m.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: presign", blob.ErrNotFound)
	}
	return fmt.Sprintf("https://signed.test/%s?X-Amz-Expires=%d", key, int(ttl.Seconds())), nil
}

// Seed stores data under key without going through Put.
func (m *Memory) Seed(key string, data []byte) {
	m.mu.Lock()
	m.objects[key] = Stored{Data: bytes.Clone(data)}
	m.mu.Unlock()
}

// Get returns the stored object.
func (m *Memory) Get(key string) (Stored, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

// Keys lists stored keys in order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
