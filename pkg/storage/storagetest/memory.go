// Package storagetest provides an in-memory storage.System for tests.
package storagetest

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/JaimeStill/assay/pkg/lifecycle"
	"github.com/JaimeStill/assay/pkg/storage"
)

// Memory stores blobs in a map. The zero value is not usable; call New.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
	// FailUpload, when set, is returned by Upload.
	FailUpload error
}

func New() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Start(*lifecycle.Coordinator) error { return nil }

func (m *Memory) Ready() bool { return true }

func (m *Memory) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if m.FailUpload != nil {
		return m.FailUpload
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *Memory) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := m.ReadAll(ctx, key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) ReadAll(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

// Put stores data under key directly.
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.blobs))
}

var _ storage.System = (*Memory)(nil)
