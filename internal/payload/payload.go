// Package payload converts between raw image bytes and the data URLs
// (data:<mime>;base64,<payload>) stored in the media tables.
package payload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

var (
	ErrMalformed = errors.New("malformed data url")
	ErrNotImage  = errors.New("data url is not an image")
)

// Image is a decoded data URL.
type Image struct {
	MIME string
	Data []byte
}

// Decode parses a stored data URL. Any image/* media type is accepted.
func Decode(s string) (*Image, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, ErrMalformed
	}
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if du.Type != "image" {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, du.ContentType())
	}
	return &Image{MIME: du.ContentType(), Data: du.Data}, nil
}

// Encode builds a base64 data URL for data with the given mime type.
func Encode(mime string, data []byte) string {
	return dataurl.New(data, mime).String()
}

// EncodeJPEG is Encode for the booth's capture format.
func EncodeJPEG(data []byte) string {
	return Encode("image/jpeg", data)
}

// IsDataURL reports whether s looks like an inline data payload.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// Extension returns a file extension (with dot) for an image mime type.
func Extension(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	}
	if i := strings.IndexByte(mime, '/'); i >= 0 && i < len(mime)-1 {
		return "." + mime[i+1:]
	}
	return ".bin"
}
