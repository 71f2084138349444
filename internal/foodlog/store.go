// Package foodlog persists the food entry sequence and the daily reset marker
// on top of a storage.Provider. It applies no business rules.
package foodlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/storage"
)

var (
	// ErrStorageUnavailable wraps every failure to read or write the backing medium
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptRecord is returned when a persisted record cannot be decoded
	ErrCorruptRecord = errors.New("corrupt record")
)

// Store is the sole mutator of persisted entries. Entries are kept newest
// first and every mutation writes the full sequence back.
type Store struct {
	provider storage.Provider
}

func NewStore(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

// Provider exposes the backing record store.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

// Save prepends entry to the log.
func (s *Store) Save(entry models.Entry) error {
	entries, err := s.GetAll()
	if err != nil {
		return err
	}
	return s.write(append([]models.Entry{entry}, entries...))
}

// GetAll returns the persisted entries, newest first. A missing or empty
// record yields an empty slice.
func (s *Store) GetAll() ([]models.Entry, error) {
	raw, ok, err := s.provider.Get(constants.RecordEntries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok || raw == "" {
		return []models.Entry{}, nil
	}

	var entries []models.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, constants.RecordEntries, err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.Entry, bool, error) {
	entries, err := s.GetAll()
	if err != nil {
		return models.Entry{}, false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return models.Entry{}, false, nil
}

// Delete removes the entry with the given id. Absent ids are a no-op and
// leave the backing record untouched.
func (s *Store) Delete(id string) error {
	entries, err := s.GetAll()
	if err != nil {
		return err
	}
	kept := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.write(kept)
}

// Replace overwrites the whole sequence. Used by the rollover policy.
func (s *Store) Replace(entries []models.Entry) error {
	return s.write(entries)
}

// ClearAll removes every entry.
func (s *Store) ClearAll() error {
	if err := s.provider.Delete(constants.RecordEntries); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// LastReset returns the last rollover instant, or nil before the first rollover.
func (s *Store) LastReset() (*time.Time, error) {
	raw, ok, err := s.provider.Get(constants.RecordLastReset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, constants.RecordLastReset, err)
	}
	return &t, nil
}

// SetLastReset records t as the last rollover instant.
func (s *Store) SetLastReset(t time.Time) error {
	if err := s.provider.Set(constants.RecordLastReset, t.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) write(entries []models.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to serialize entries: %w", err)
	}
	if err := s.provider.Set(constants.RecordEntries, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
