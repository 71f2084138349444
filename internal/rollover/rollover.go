// Package rollover decides when the food log starts a new day and prunes
// today's entries when it does.
package rollover

import (
	"fmt"
	"time"

	"github.com/julianstephens/nutrilog/internal/foodlog"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/models"
)

// Policy compares the stored reset marker against the current calendar day.
// Both the check and the partition use the same location.
type Policy struct {
	store *foodlog.Store
	loc   *time.Location
	now   func() time.Time

	// Snapshot runs before every reset. Failures are logged and never block the reset.
	Snapshot func() error
}

func New(store *foodlog.Store, loc *time.Location, now func() time.Time) *Policy {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Policy{store: store, loc: loc, now: now}
}

// Result describes one completed reset.
type Result struct {
	Removed  int
	Retained int
	At       time.Time
}

// NeedsAutoReset is true only when a reset marker exists and its calendar date
// differs from today's. A first run never triggers a reset.
func (p *Policy) NeedsAutoReset() (bool, error) {
	last, err := p.store.LastReset()
	if err != nil {
		return false, err
	}
	if last == nil {
		return false, nil
	}
	return !models.SameDay(*last, p.now(), p.loc), nil
}

// PerformReset removes the entries created today, keeps everything older and
// stamps the reset marker with the current instant.
func (p *Policy) PerformReset() (Result, error) {
	if p.Snapshot != nil {
		if err := p.Snapshot(); err != nil {
			logger.Warn("pre-reset snapshot failed", "error", err)
		}
	}

	now := p.now()
	entries, err := p.store.GetAll()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load entries for reset: %w", err)
	}

	kept := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if !models.SameDay(e.Date, now, p.loc) {
			kept = append(kept, e)
		}
	}

	if err := p.store.Replace(kept); err != nil {
		return Result{}, fmt.Errorf("failed to write entries for reset: %w", err)
	}
	if err := p.store.SetLastReset(now); err != nil {
		return Result{}, fmt.Errorf("failed to record reset: %w", err)
	}

	res := Result{Removed: len(entries) - len(kept), Retained: len(kept), At: now}
	logger.Info("daily reset performed", "removed", res.Removed, "retained", res.Retained)
	return res, nil
}

// CheckAndReset performs a reset when NeedsAutoReset says so. The returned
// bool reports whether a reset happened.
func (p *Policy) CheckAndReset() (bool, Result, error) {
	needed, err := p.NeedsAutoReset()
	if err != nil {
		return false, Result{}, err
	}
	if !needed {
		return false, Result{}, nil
	}
	res, err := p.PerformReset()
	if err != nil {
		return false, Result{}, err
	}
	return true, res, nil
}

// Location returns the calendar location used for day partitioning.
func (p *Policy) Location() *time.Location {
	return p.loc
}

// Now returns the policy clock's current time.
func (p *Policy) Now() time.Time {
	return p.now()
}
