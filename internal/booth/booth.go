package booth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"photobooth/internal/client"
	"photobooth/internal/collage"
	"photobooth/internal/compositor"
	"photobooth/internal/device"
	"photobooth/internal/filter"
	"photobooth/internal/logger"
	"photobooth/internal/model"
	"photobooth/internal/payload"
	"photobooth/internal/share"
)

var (
	// ErrBusy is returned when a capture is requested while one is running.
	ErrBusy = errors.New("capture already in progress")
	// ErrReset is returned by a capture that was discarded by Reset or SwitchMode.
	ErrReset = errors.New("session reset")
)

// Saver persists composed images. *client.Client implements it.
type Saver interface {
	Save(ctx context.Context, kind model.Kind, image []byte, meta client.Meta) (*client.Saved, error)
}

// Presenter shows a share link or download. *share.Presenter implements it.
type Presenter interface {
	Present(ctx context.Context, target string) share.Presentation
}

type Options struct {
	Source     device.Source
	Filters    *filter.Registry
	Compositor *compositor.Compositor
	Saver      Saver
	Presenter  Presenter
	Notifier   Notifier
	Logger     *logger.Logger

	Mode      Mode
	Layout    collage.Layout
	Countdown Countdown
	// ShotPause separates collage shots.
	ShotPause time.Duration
}

// Result is what a finished session produced.
type Result struct {
	Session      Session
	Composed     Composed
	Saved        *client.Saved
	Presentation share.Presentation
}

// Booth drives one capture session at a time.
type Booth struct {
	source     device.Source
	filters    *filter.Registry
	compositor *compositor.Compositor
	saver      Saver
	presenter  Presenter
	notify     Notifier
	log        *logger.Logger
	countdown  Countdown
	shotPause  time.Duration

	mu         sync.Mutex
	session    Session
	filterKey  string
	busy       bool
	generation uint64
	cancel     context.CancelFunc
}

func New(opts Options) *Booth {
	b := &Booth{
		source:     opts.Source,
		filters:    opts.Filters,
		compositor: opts.Compositor,
		saver:      opts.Saver,
		presenter:  opts.Presenter,
		notify:     opts.Notifier,
		log:        opts.Logger,
		countdown:  opts.Countdown,
		shotPause:  opts.ShotPause,
		session:    NewSession(opts.Mode, opts.Layout),
		filterKey:  "none",
	}
	if b.filters == nil {
		b.filters = filter.NewRegistry()
	}
	if b.compositor == nil {
		b.compositor = compositor.New(compositor.DefaultQuality)
	}
	if b.notify == nil {
		b.notify = nopNotifier{}
	}
	if b.log == nil {
		b.log = logger.Discard()
	}
	return b
}

// Session returns a copy of the current session.
func (b *Booth) Session() Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.session
	s.Frames = append([]Frame(nil), s.Frames...)
	return s
}

// Busy reports whether a capture is running.
func (b *Booth) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// SetFilter selects the preset baked into subsequent shots.
func (b *Booth) SetFilter(key string) filter.Effect {
	effect := b.filters.Resolve(key)
	b.mu.Lock()
	b.filterKey = effect.Key
	b.mu.Unlock()
	return effect
}

// Filter is the currently selected effect, for the live preview.
func (b *Booth) Filter() filter.Effect {
	b.mu.Lock()
	key := b.filterKey
	b.mu.Unlock()
	return b.filters.Resolve(key)
}

// SetLayout changes the collage layout. It is refused while capturing.
func (b *Booth) SetLayout(l collage.Layout) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.busy {
		return ErrBusy
	}
	b.session = SetLayout(b.session, l)
	return nil
}

// Reset abandons any running capture and clears all frames.
func (b *Booth) Reset() {
	b.abandon(func(s Session) Session { return Reset(s) })
}

// SwitchMode resets the booth into mode m.
func (b *Booth) SwitchMode(m Mode) {
	b.abandon(func(s Session) Session { return SwitchMode(s, m) })
}

func (b *Booth) abandon(transition func(Session) Session) {
	b.mu.Lock()
	b.generation++
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.busy = false
	b.session = transition(b.session)
	s := b.session
	b.mu.Unlock()

	b.notify.StatusChanged(s)
}

// apply runs a transition unless the session was reset since gen began.
func (b *Booth) apply(gen uint64, transition func(Session) Session) (Session, bool) {
	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		return Session{}, false
	}
	prev := b.session.Status
	b.session = transition(b.session)
	s := b.session
	b.mu.Unlock()

	if s.Status != prev {
		b.notify.StatusChanged(s)
	}
	return s, true
}

// Capture runs a full session: countdowns and shots, the collage when in
// collage mode, then persistence and presentation. A save failure is not an
// error; the result simply has no Saved record and offers a download.
func (b *Booth) Capture(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return nil, ErrBusy
	}
	started, ok := Start(b.session)
	if !ok {
		b.mu.Unlock()
		return nil, ErrBusy
	}
	b.busy = true
	b.generation++
	gen := b.generation
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.session = started
	b.mu.Unlock()

	defer b.release(gen, cancel)
	b.notify.StatusChanged(started)

	s, err := b.shoot(ctx, gen, started)
	if err != nil {
		return nil, b.fail(gen, err)
	}

	composed, err := b.compose(ctx, s)
	if err != nil {
		return nil, b.fail(gen, err)
	}
	if s, ok = b.apply(gen, Finish); !ok {
		return nil, ErrReset
	}

	result := &Result{Session: s, Composed: composed}
	result.Saved = b.persist(ctx, s, composed)
	if b.stale(gen) {
		return nil, ErrReset
	}

	if b.presenter != nil {
		target := payload.EncodeJPEG(composed.Data)
		if result.Saved != nil {
			target = result.Saved.ShareURL
		}
		result.Presentation = b.presenter.Present(ctx, target)
	}
	return result, nil
}

func (b *Booth) stale(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return gen != b.generation
}

func (b *Booth) release(gen uint64, cancel context.CancelFunc) {
	cancel()
	b.mu.Lock()
	if gen == b.generation {
		b.busy = false
		b.cancel = nil
	}
	b.mu.Unlock()
}

func (b *Booth) fail(gen uint64, err error) error {
	if _, ok := b.apply(gen, func(s Session) Session { return Fail(s, err) }); !ok {
		return ErrReset
	}
	b.notify.Failed(err)
	return err
}

// shoot repeats countdown and capture until the session leaves the capture loop.
func (b *Booth) shoot(ctx context.Context, gen uint64, s Session) (Session, error) {
	if b.source == nil {
		return s, fmt.Errorf("%w: no capture device", device.ErrUnavailable)
	}

	total := s.Target()
	for shot := 1; ; shot++ {
		err := b.countdown.Run(ctx, func(remaining int) {
			b.notify.Tick(remaining, shot, total)
		})
		if err != nil {
			return s, err
		}

		var ok bool
		if s, ok = b.apply(gen, CountdownDone); !ok {
			return s, ErrReset
		}

		effect := b.Filter()
		data, err := b.compositor.CaptureFrame(b.source, effect.Capture)
		if err != nil {
			return s, err
		}

		frame := Frame{Data: data, Filter: effect.Key, Ordinal: shot}
		if s, ok = b.apply(gen, func(cur Session) Session { return Captured(cur, frame) }); !ok {
			return s, ErrReset
		}
		if s.Status != AwaitingCountdown {
			return s, nil
		}

		if err := sleep(ctx, b.shotPause); err != nil {
			return s, err
		}
	}
}

func (b *Booth) compose(ctx context.Context, s Session) (Composed, error) {
	if s.Mode == Single {
		return Composed{Data: s.Frames[0].Data, Kind: model.KindPhoto}, nil
	}

	encoded := make([][]byte, len(s.Frames))
	for i, f := range s.Frames {
		encoded[i] = f.Data
	}
	images, err := compositor.DecodeAll(ctx, encoded)
	if err != nil {
		return Composed{}, fmt.Errorf("%w: %v", compositor.ErrCaptureFailed, err)
	}

	data, err := collage.Render(b.compositor, images, s.Layout)
	if err != nil {
		return Composed{}, err
	}
	return Composed{Data: data, Kind: model.KindCollage, Layout: s.Layout}, nil
}

func (b *Booth) persist(ctx context.Context, s Session, c Composed) *client.Saved {
	if b.saver == nil {
		return nil
	}

	meta := client.Meta{Format: string(c.Layout)}
	if c.Kind == model.KindPhoto {
		meta.Filename = fmt.Sprintf("photobooth_%s.jpg", s.ID)
	}

	saved, err := b.saver.Save(ctx, c.Kind, c.Data, meta)
	if err != nil {
		b.log.Warning("No share link for session %s: %v", s.ID, err)
		return nil
	}
	return saved
}
