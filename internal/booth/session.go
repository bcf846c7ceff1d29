// Package booth sequences countdowns, captures and collage composition for
// a single operator. Session transitions are pure; Booth owns the side effects.
package booth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"photobooth/internal/collage"
	"photobooth/internal/model"
)

// Mode selects between one shot and a four-frame collage.
type Mode int

const (
	Single Mode = iota
	Collage
)

func (m Mode) String() string {
	if m == Collage {
		return "collage"
	}
	return "single"
}

// ParseMode accepts "single" or "collage".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single", "photo":
		return Single, nil
	case "collage":
		return Collage, nil
	}
	return Single, fmt.Errorf("unknown capture mode %q", s)
}

// Status is where a session is in its capture sequence.
type Status int

const (
	Idle Status = iota
	AwaitingCountdown
	Capturing
	Composing
	Ready
	Error
)

var statusNames = [...]string{"idle", "awaiting-countdown", "capturing", "composing", "ready", "error"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Frame is one captured still.
type Frame struct {
	Data    []byte
	Filter  string
	Ordinal int
}

// Session is the booth's only mutable state. Frames are newest first.
type Session struct {
	ID     uuid.UUID
	Mode   Mode
	Layout collage.Layout
	Frames []Frame
	Status Status
	Err    error
}

// Composed is the flattened result of a session.
type Composed struct {
	Data   []byte
	Kind   model.Kind
	Layout collage.Layout
}

// NewSession returns an idle session.
func NewSession(mode Mode, layout collage.Layout) Session {
	if layout == "" {
		layout = collage.Grid2x2
	}
	return Session{ID: uuid.New(), Mode: mode, Layout: layout, Status: Idle}
}

// Target is the number of frames that completes the session.
func (s Session) Target() int {
	if s.Mode == Collage {
		return collage.Slots
	}
	return 1
}

// Active reports whether a capture sequence is in progress.
func (s Session) Active() bool {
	switch s.Status {
	case AwaitingCountdown, Capturing, Composing:
		return true
	}
	return false
}

// Start begins a new sequence. It is refused while another one is active.
func Start(s Session) (Session, bool) {
	if s.Active() {
		return s, false
	}
	s.ID = uuid.New()
	s.Frames = nil
	s.Err = nil
	s.Status = AwaitingCountdown
	return s, true
}

// CountdownDone moves an awaiting session to Capturing.
func CountdownDone(s Session) Session {
	if s.Status == AwaitingCountdown {
		s.Status = Capturing
	}
	return s
}

// Captured puts f at the front of the sequence, trims to the target and
// decides whether another countdown, composition or nothing follows.
func Captured(s Session, f Frame) Session {
	if s.Status != Capturing {
		return s
	}

	target := s.Target()
	frames := make([]Frame, 0, len(s.Frames)+1)
	frames = append(frames, f)
	frames = append(frames, s.Frames...)
	if len(frames) > target {
		frames = frames[:target]
	}
	s.Frames = frames

	switch {
	case s.Mode == Single:
		s.Status = Ready
	case len(frames) < target:
		s.Status = AwaitingCountdown
	default:
		s.Status = Composing
	}
	return s
}

// Finish marks a composed collage as ready.
func Finish(s Session) Session {
	if s.Status == Composing {
		s.Status = Ready
	}
	return s
}

// Fail ends the sequence with err. Frames already taken are kept.
func Fail(s Session, err error) Session {
	s.Status = Error
	s.Err = err
	return s
}

// Reset discards every frame and returns to Idle.
func Reset(s Session) Session {
	s.Frames = nil
	s.Err = nil
	s.Status = Idle
	return s
}

// SwitchMode resets the session and selects m.
func SwitchMode(s Session, m Mode) Session {
	s = Reset(s)
	s.Mode = m
	return s
}

// SetLayout changes the collage layout unless a sequence is running.
func SetLayout(s Session, l collage.Layout) Session {
	if !s.Active() {
		s.Layout = l
	}
	return s
}
