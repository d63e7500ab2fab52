// Package kv provides in-memory and file backed storage.Store implementations.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kylycht/flux/storage"
	"github.com/rs/zerolog/log"
)

// Memory keeps values in a map
type Memory struct {
	lock   sync.RWMutex      // guards values
	values map[string]string // stored values
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements storage.Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements storage.Store.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.values[key] = value
	return nil
}

// Close implements storage.Store.
func (m *Memory) Close() error {
	return nil
}

// File keeps all values in a single JSON object on disk.
// The file is read once on open and rewritten in full on every Set.
type File struct {
	mem  *Memory
	path string
	lock sync.Mutex // serializes writes
}

// Open loads the store at path. A missing file gives an empty store,
// an unreadable one is logged and replaced on the next write.
func Open(path string) (storage.Store, error) {
	f := &File{mem: NewMemory(), path: path}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}

	if len(content) == 0 {
		return f, nil
	}

	if err := json.Unmarshal(content, &f.mem.values); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("discarding unreadable store file")
		f.mem.values = make(map[string]string)
	}

	return f, nil
}

// Get implements storage.Store.
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	return f.mem.Get(ctx, key)
}

// Set implements storage.Store.
func (f *File) Set(ctx context.Context, key, value string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.mem.Set(ctx, key, value); err != nil {
		return err
	}

	f.mem.lock.RLock()
	content, err := json.MarshalIndent(f.mem.values, "", "  ")
	f.mem.lock.RUnlock()
	if err != nil {
		return err
	}

	return writeAtomic(f.path, content)
}

// Close implements storage.Store.
func (f *File) Close() error {
	return nil
}

func writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
