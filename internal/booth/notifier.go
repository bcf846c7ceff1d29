package booth

import (
	"fmt"
	"io"

	"photobooth/internal/logger"
)

// Notifier receives operator-facing feedback while a session runs.
type Notifier interface {
	StatusChanged(s Session)
	Tick(remaining, shot, total int)
	Failed(err error)
}

type nopNotifier struct{}

func (nopNotifier) StatusChanged(Session) {}
func (nopNotifier) Tick(int, int, int)    {}
func (nopNotifier) Failed(error)          {}

// TextNotifier writes stage captions to w, one per line.
type TextNotifier struct {
	W io.Writer
}

func (n TextNotifier) StatusChanged(s Session) {
	if caption := Caption(s); caption != "" {
		fmt.Fprintln(n.W, caption)
	}
}

func (n TextNotifier) Tick(remaining, shot, total int) {
	if total > 1 {
		fmt.Fprintf(n.W, "Taking in %ds (%d/%d)\n", remaining, shot, total)
		return
	}
	fmt.Fprintf(n.W, "Taking in %ds\n", remaining)
}

func (n TextNotifier) Failed(err error) {
	fmt.Fprintf(n.W, "Error during capture: %v. Reset to try again.\n", err)
}

// LogNotifier records session progress in the application log.
type LogNotifier struct {
	Log *logger.Logger
}

func (n LogNotifier) StatusChanged(s Session) {
	n.Log.Info("Session %s: %s (%d/%d frames)", s.ID, s.Status, len(s.Frames), s.Target())
}

func (n LogNotifier) Tick(int, int, int) {}

func (n LogNotifier) Failed(err error) {
	n.Log.Error("Capture failed: %v", err)
}

// Caption is the stage text shown for a session.
func Caption(s Session) string {
	switch s.Status {
	case Idle:
		if s.Mode == Collage {
			return "Ready - Collage Mode"
		}
		return "Ready - Single Mode"
	case Composing:
		return "Composing collage..."
	case Ready:
		if s.Mode == Collage {
			return "Collage Complete!"
		}
		return "Photo Ready"
	case Error:
		return "Error during capture. Click Reset to try again."
	}
	return ""
}
