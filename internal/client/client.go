// Package client talks to the photobooth server on behalf of the booth.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"photobooth/internal/dto"
	"photobooth/internal/logger"
	"photobooth/internal/model"
	"photobooth/internal/payload"
)

// ErrPersistence is returned for any save that did not produce a record.
var ErrPersistence = errors.New("persistence failed")

// Meta carries the optional record fields sent with an image.
type Meta struct {
	Filename string
	Title    string
	Format   string
}

// Saved identifies a persisted image.
type Saved struct {
	ID       int64
	Kind     model.Kind
	ShareURL string
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *logger.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("server base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No timeout: a stalled save is bounded only by the caller's context.
		httpClient = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Client{baseURL: base, httpClient: httpClient, log: log}, nil
}

// Origin returns the server base URL the client was built with.
func (c *Client) Origin() string {
	return c.baseURL
}

// ShareURL is {origin}/share/{kind}/{id}.
func ShareURL(origin string, kind model.Kind, id int64) string {
	return fmt.Sprintf("%s/share/%s/%d", strings.TrimRight(origin, "/"), kind, id)
}

// Save uploads a JPEG as a photo or collage. Failures are logged and
// returned wrapped in ErrPersistence; callers continue without a share link.
func (c *Client) Save(ctx context.Context, kind model.Kind, image []byte, meta Meta) (*Saved, error) {
	var (
		path string
		body any
	)
	dataURL := payload.EncodeJPEG(image)

	switch kind {
	case model.KindPhoto:
		filename := meta.Filename
		if filename == "" {
			filename = fmt.Sprintf("photobooth_%s.jpg", uuid.NewString())
		}
		path, body = "/api/photos", dto.CreatePhotoRequest{Filename: filename, DataURL: dataURL}
	case model.KindCollage:
		path, body = "/api/collages", dto.CreateCollageRequest{Title: meta.Title, Format: meta.Format, DataURL: dataURL}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrPersistence, kind)
	}

	respBody, err := c.doJSON(ctx, http.MethodPost, path, body)
	if err != nil {
		c.log.Error("Failed to save %s: %v", kind, err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var created struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil || created.ID == 0 {
		c.log.Error("Unexpected save response for %s: %s", kind, truncate(string(respBody), 200))
		return nil, fmt.Errorf("%w: invalid response", ErrPersistence)
	}

	saved := &Saved{ID: created.ID, Kind: kind, ShareURL: ShareURL(c.baseURL, kind, created.ID)}
	c.log.Info("Saved %s %d", kind, created.ID)
	return saved, nil
}

// NetworkBaseURL asks the server which base URL LAN devices should use.
func (c *Client) NetworkBaseURL(ctx context.Context) (string, error) {
	respBody, err := c.doJSON(ctx, http.MethodGet, "/api/config", nil)
	if err != nil {
		return "", err
	}

	var cfg dto.ServerConfig
	if err := json.Unmarshal(respBody, &cfg); err != nil {
		return "", fmt.Errorf("invalid config response: %w", err)
	}
	if cfg.BaseURL == "" {
		return "", errors.New("config response has no baseURL")
	}
	return cfg.BaseURL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed, status=%d body=%s", resp.StatusCode, truncate(strings.TrimSpace(string(respBody)), 200))
	}
	return respBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
