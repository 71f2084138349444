// Package storagetest provides in-memory storage.Provider implementations for tests.
package storagetest

import (
	"errors"
	"sort"
	"sync"
)

// ErrInjected is returned by a Memory store whose writes or reads are set to fail.
var ErrInjected = errors.New("injected storage failure")

// Memory is a map-backed provider. FailWrites and FailReads simulate an
// unavailable medium.
type Memory struct {
	mu         sync.Mutex
	records    map[string]string
	FailWrites bool
	FailReads  bool
	Writes     int
}

func NewMemory() *Memory {
	return &Memory{records: map[string]string{}}
}

func (m *Memory) Init() error  { return nil }
func (m *Memory) Load() error  { return nil }
func (m *Memory) Close() error { return nil }

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return "", false, ErrInjected
	}
	v, ok := m.records[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	m.records[key] = value
	m.Writes++
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	delete(m.records, key)
	m.Writes++
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) GetConfigPath() string { return ":memory:" }
func (m *Memory) Kind() string          { return "memory" }

// Raw returns the stored value for key, bypassing failure injection.
func (m *Memory) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key]
}
