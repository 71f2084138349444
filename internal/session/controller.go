// Package session drives the capture flow: input, screening, analysis,
// persistence and the in-memory view of the log.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/foodlog"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/misuse"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/rollover"
)

var (
	// ErrBusy is returned when a submission arrives while an analysis is running
	ErrBusy = errors.New("an analysis is already in progress")
	// ErrInvalidTransition is returned when an action is not allowed in the current state
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	// ErrEmptyDescription is returned for blank text submissions
	ErrEmptyDescription = errors.New("description is empty")
	// ErrMisuseBlocked is returned when the misuse gate rejects a text submission
	ErrMisuseBlocked = errors.New("submission is not about food")
)

// User-facing messages
const (
	MsgImageFailed = "Image analysis failed. Try again or describe the food in text."
	MsgTextFailed  = "Text analysis failed. Try again with a more detailed description."
	MsgSaveFailed  = "The entry could not be saved because storage is unavailable. Try again."
	MsgEmptyText   = "Describe what you ate before submitting."
)

// Config wires a Controller to its collaborators.
type Config struct {
	Store    *foodlog.Store
	Policy   *rollover.Policy
	Analyzer analyzer.Analyzer
	Gate     *misuse.Gate

	// NewID defaults to random UUIDs
	NewID func() string
	// APIKeyMissing switches on the credential warning banner
	APIKeyMissing bool
}

// Controller owns the capture state machine. All methods are safe for
// concurrent use; analysis calls run without holding the lock.
type Controller struct {
	mu sync.Mutex

	store    *foodlog.Store
	policy   *rollover.Policy
	analyzer analyzer.Analyzer
	gate     *misuse.Gate
	newID    func() string

	state        State
	mode         Mode
	errMsg       string
	textFallback bool
	uncertain    bool
	resetNotice  bool
	lastDecision misuse.Decision

	apiKeyMissing bool
	items         []models.Entry
	lastReset     *time.Time
}

func New(cfg Config) *Controller {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	gate := cfg.Gate
	if gate == nil {
		gate = misuse.NewGate(cfg.Analyzer, nil)
	}
	return &Controller{
		store:         cfg.Store,
		policy:        cfg.Policy,
		analyzer:      cfg.Analyzer,
		gate:          gate,
		newID:         newID,
		apiKeyMissing: cfg.APIKeyMissing,
		items:         []models.Entry{},
	}
}

// Start loads the log and runs the automatic rollover check. It reports
// whether a rollover happened.
func (c *Controller) Start() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	did, res, err := c.policy.CheckAndReset()
	if err != nil {
		// Still show whatever is readable
		_ = c.refreshLocked()
		return false, fmt.Errorf("automatic reset failed: %w", err)
	}
	if did {
		logger.Info("automatic daily reset", "removed", res.Removed)
	}
	return did, c.refreshLocked()
}

// Open starts a capture in image mode.
func (c *Controller) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return c.transitionError("open capture")
	}
	c.state = AwaitingInput
	c.mode = ModeImage
	c.clearMessagesLocked()
	return nil
}

// UseText switches an open capture to the text form.
func (c *Controller) UseText() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != AwaitingInput {
		return c.transitionError("switch to text")
	}
	c.mode = ModeText
	c.errMsg = ""
	return nil
}

// Cancel backs out of the text form to the image capture, or closes an
// image capture entirely.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != AwaitingInput {
		return c.transitionError("cancel")
	}
	if c.mode == ModeText {
		c.mode = ModeImage
		c.errMsg = ""
		c.textFallback = false
		return nil
	}
	c.state = Idle
	c.clearMessagesLocked()
	return nil
}

// SubmitImage analyzes an image. On failure the capture stays open in text
// mode with the fallback offered.
func (c *Controller) SubmitImage(ctx context.Context, img analyzer.Image) (models.Entry, error) {
	if err := c.begin(ModeImage); err != nil {
		return models.Entry{}, err
	}

	est, err := c.analyzer.AnalyzeImage(ctx, img)
	if err != nil {
		logger.Warn("image analysis failed", "error", err)
		c.fail(ModeText, MsgImageFailed, true)
		return models.Entry{}, err
	}
	return c.commit(models.NewEntry(c.newID(), est, img.DataURL(), c.policy.Now()), ModeImage)
}

// SubmitText screens and analyzes a description. A blocked submission moves
// to the misuse state and returns ErrMisuseBlocked.
func (c *Controller) SubmitText(ctx context.Context, description string) (models.Entry, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		c.mu.Lock()
		if c.state == AwaitingInput {
			c.mode = ModeText
			c.errMsg = MsgEmptyText
		}
		c.mu.Unlock()
		return models.Entry{}, ErrEmptyDescription
	}
	if err := c.begin(ModeText); err != nil {
		return models.Entry{}, err
	}

	decision := c.gate.Evaluate(ctx, description)
	if decision.Verdict == misuse.Blocked {
		c.mu.Lock()
		c.state = MisuseBlocked
		c.lastDecision = decision
		c.clearMessagesLocked()
		c.mu.Unlock()
		return models.Entry{}, ErrMisuseBlocked
	}

	est, err := c.analyzer.AnalyzeText(ctx, description)
	if err != nil {
		logger.Warn("text analysis failed", "error", err)
		c.fail(ModeText, MsgTextFailed, c.textFallbackOffered())
		return models.Entry{}, err
	}

	c.mu.Lock()
	c.uncertain = decision.Verdict == misuse.ProceedUncertain
	c.mu.Unlock()
	return c.commit(models.NewEntry(c.newID(), est, "", c.policy.Now()), ModeText)
}

// AcknowledgeMisuse closes the capture after a blocked submission.
func (c *Controller) AcknowledgeMisuse() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != MisuseBlocked {
		return c.transitionError("acknowledge misuse warning")
	}
	c.state = Idle
	c.mode = ModeImage
	c.lastDecision = misuse.Decision{}
	c.clearMessagesLocked()
	return nil
}

// DeleteItem removes an entry. Only allowed while idle.
func (c *Controller) DeleteItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return c.transitionError("delete entry")
	}
	if err := c.store.Delete(id); err != nil {
		return err
	}
	return c.refreshLocked()
}

// NewDay runs a manual rollover regardless of the date check and raises the
// reset notice.
func (c *Controller) NewDay() (rollover.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return rollover.Result{}, c.transitionError("start a new day")
	}
	res, err := c.policy.PerformReset()
	if err != nil {
		return rollover.Result{}, err
	}
	c.resetNotice = true
	return res, c.refreshLocked()
}

// DismissResetNotice clears the reset notice.
func (c *Controller) DismissResetNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetNotice = false
}

// Refresh reloads the mirror from the store.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked()
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.Entry, len(c.items))
	copy(items, c.items)
	var lastReset *time.Time
	if c.lastReset != nil {
		t := *c.lastReset
		lastReset = &t
	}

	return View{
		State:         c.state,
		Mode:          c.mode,
		Error:         c.errMsg,
		TextFallback:  c.textFallback,
		Uncertain:     c.uncertain,
		ResetNotice:   c.resetNotice,
		APIKeyMissing: c.apiKeyMissing,
		Blocked:       c.lastDecision,
		Entries:       items,
		Stats:         models.Summarize(items, c.policy.Now(), c.policy.Location()),
		LastReset:     lastReset,
	}
}

func (c *Controller) begin(mode Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Analyzing:
		return ErrBusy
	case AwaitingInput:
	default:
		return c.transitionError("submit")
	}
	c.state = Analyzing
	c.mode = mode
	c.errMsg = ""
	c.uncertain = false
	return nil
}

func (c *Controller) fail(mode Mode, msg string, fallback bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = AwaitingInput
	c.mode = mode
	c.errMsg = msg
	c.textFallback = fallback
}

func (c *Controller) textFallbackOffered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.textFallback
}

func (c *Controller) commit(entry models.Entry, mode Mode) (models.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(entry); err != nil {
		logger.Error("failed to save entry", "error", err)
		c.state = AwaitingInput
		c.mode = mode
		c.errMsg = MsgSaveFailed
		return models.Entry{}, err
	}
	logger.Info("entry saved", "id", entry.ID, "name", entry.Name, "image", entry.HasImage())

	c.state = Idle
	c.mode = ModeImage
	c.errMsg = ""
	c.textFallback = false
	if err := c.refreshLocked(); err != nil {
		// The entry is durable; keep the mirror consistent without a reload
		c.items = append([]models.Entry{entry}, c.items...)
	}
	return entry, nil
}

func (c *Controller) refreshLocked() error {
	items, err := c.store.GetAll()
	if err != nil {
		return err
	}
	last, err := c.store.LastReset()
	if err != nil {
		return err
	}
	c.items = items
	c.lastReset = last
	return nil
}

func (c *Controller) clearMessagesLocked() {
	c.errMsg = ""
	c.textFallback = false
	c.uncertain = false
}

func (c *Controller) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, c.state)
}
