package dto

import "time"

// CreatedPhoto is returned with 201 after a photo insert.
type CreatedPhoto struct {
	Success   bool      `json:"success"`
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
}

// CreatedCollage is returned with 201 after a collage insert.
type CreatedCollage struct {
	Success   bool      `json:"success"`
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
}

type Deleted struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error is the body of every non-2xx JSON response. Message carries the
// underlying cause for 500s.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type ServerConfig struct {
	BaseURL string `json:"baseURL"`
}

// FilterPreset describes one filter button of the booth UI.
type FilterPreset struct {
	Key string `json:"key"`
	CSS string `json:"css"`
}
