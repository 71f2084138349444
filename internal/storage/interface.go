package storage

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrNotInitialized is returned by Load when the backing file does not exist yet
	ErrNotInitialized = errors.New("storage not initialized, run 'nutrilog init' first")
	// ErrNotLoaded is returned when a record is accessed before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a durable key-value record store. Values are opaque strings;
// callers own their encoding.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records. Get reports ok=false for a missing record.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
	Kind() string
}

// New selects a provider from the path: a ".json" suffix yields the JSON
// file store, anything else the SQLite store.
func New(path string) Provider {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}
