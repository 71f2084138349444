package session

import (
	"time"

	"github.com/julianstephens/nutrilog/internal/misuse"
	"github.com/julianstephens/nutrilog/internal/models"
)

// State is the capture flow state.
type State int

const (
	Idle State = iota
	AwaitingInput
	Analyzing
	MisuseBlocked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingInput:
		return "awaiting-input"
	case Analyzing:
		return "analyzing"
	case MisuseBlocked:
		return "misuse-blocked"
	default:
		return "unknown"
	}
}

// Mode selects the input form shown while awaiting input.
type Mode int

const (
	ModeImage Mode = iota
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "image"
}

// View is a point-in-time copy of everything a presentation layer renders.
type View struct {
	State State
	Mode  Mode

	// Error is the inline message for the current form, if any
	Error string
	// TextFallback is set after an image failure offered the text form
	TextFallback bool
	// Uncertain is set when the last text entry was accepted without a relatedness answer
	Uncertain bool
	// ResetNotice is the transient acknowledgment after a manual new day
	ResetNotice   bool
	APIKeyMissing bool
	// Blocked holds the gate decision while in MisuseBlocked
	Blocked misuse.Decision

	Entries   []models.Entry
	Stats     models.DailyStats
	LastReset *time.Time
}
