// Package share decides how a capture result is offered to guests: a QR
// code for a share link, a download for inline image data, or plain text.
package share

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"photobooth/internal/logger"
	"photobooth/internal/payload"
)

const (
	// ReadyMessage is shown before anything has been captured.
	ReadyMessage = "Photobooth Ready"
	// PlaceholderText replaces a QR code that could not be rendered.
	PlaceholderText = "QR Ready"

	DefaultSize = 256
)

// Kind is the form a presentation takes.
type Kind int

const (
	KindQR Kind = iota
	KindDownload
	KindPlaceholder
)

func (k Kind) String() string {
	switch k {
	case KindQR:
		return "qr"
	case KindDownload:
		return "download"
	}
	return "placeholder"
}

// Presentation is what the operator's screen shows next to the result.
type Presentation struct {
	Kind Kind

	// Text is displayed under the QR code or download button.
	Text string

	// Content is what the QR code encodes.
	Content  string
	PNG      []byte
	Terminal string

	DataURL  string
	Filename string
}

// Resolver reports the base URL LAN devices can reach the server on.
type Resolver interface {
	NetworkBaseURL(ctx context.Context) (string, error)
}

type Presenter struct {
	resolver Resolver
	size     int
	log      *logger.Logger
	now      func() time.Time
}

// New returns a presenter. resolver may be nil, in which case share URLs are
// encoded as given.
func New(resolver Resolver, log *logger.Logger) *Presenter {
	if log == nil {
		log = logger.Discard()
	}
	return &Presenter{resolver: resolver, size: DefaultSize, log: log, now: time.Now}
}

var sharePath = regexp.MustCompile(`^/share/(photo|collage)/\d+$`)

// IsShareURL reports whether target points at a persisted image.
func IsShareURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && sharePath.MatchString(u.Path)
}

// Present never fails: any error, including a panic, yields the placeholder.
func (p *Presenter) Present(ctx context.Context, target string) (pres Presentation) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("QR presentation panicked: %v", r)
			pres = Placeholder()
		}
	}()

	target = strings.TrimSpace(target)
	switch {
	case payload.IsDataURL(target):
		return p.download(target)
	case IsShareURL(target):
		link := p.rewrite(ctx, target)
		return p.qr(link, link)
	default:
		return p.qr(target, target)
	}
}

// Placeholder is the textual fallback used when a QR cannot be shown.
func Placeholder() Presentation {
	return Presentation{Kind: KindPlaceholder, Text: PlaceholderText}
}

func (p *Presenter) download(dataURL string) Presentation {
	filename := "photobooth_photo.jpg"
	if img, err := payload.Decode(dataURL); err == nil {
		filename = "photobooth_photo" + payload.Extension(img.MIME)
	}
	return Presentation{
		Kind:     KindDownload,
		Text:     "Photobooth Photo - " + p.now().Format("15:04:05"),
		DataURL:  dataURL,
		Filename: filename,
	}
}

func (p *Presenter) qr(content, text string) Presentation {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		p.log.Warning("QR generation failed: %v", err)
		return Placeholder()
	}
	png, err := q.PNG(p.size)
	if err != nil {
		p.log.Warning("QR encoding failed: %v", err)
		return Placeholder()
	}
	return Presentation{
		Kind:     KindQR,
		Text:     text,
		Content:  content,
		PNG:      png,
		Terminal: q.ToSmallString(false),
	}
}

// rewrite swaps the share URL's scheme and host for the network-visible
// base URL. Lookup failures keep the original URL.
func (p *Presenter) rewrite(ctx context.Context, target string) string {
	if p.resolver == nil {
		return target
	}
	base, err := p.resolver.NetworkBaseURL(ctx)
	if err != nil {
		p.log.Warning("Could not resolve network URL, using %s: %v", target, err)
		return target
	}
	link, err := RewriteHost(target, base)
	if err != nil {
		p.log.Warning("Could not rewrite %s onto %s: %v", target, base, err)
		return target
	}
	return link
}

// RewriteHost keeps target's path and query and takes scheme and host from base.
func RewriteHost(target, base string) (string, error) {
	t, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if b.Scheme == "" || b.Host == "" {
		return "", errors.New("base url must be absolute")
	}
	t.Scheme = b.Scheme
	t.Host = b.Host
	return t.String(), nil
}

// PNG renders content as a QR code image of the given pixel size.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}
	return png, nil
}
