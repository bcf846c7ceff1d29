package model

import "time"

// Kind identifies which table a persisted image lives in.
type Kind string

const (
	KindPhoto   Kind = "photo"
	KindCollage Kind = "collage"
)

// ParseKind accepts "photo"/"collage" and their plural route forms.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "photo", "photos":
		return KindPhoto, true
	case "collage", "collages":
		return KindCollage, true
	}
	return "", false
}

// Photo represents a single captured image record.
type Photo struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	DataURL   string    `json:"data_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Collage represents a composed collage record. Format carries the layout tag.
type Collage struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Format    string    `json:"format"`
	DataURL   string    `json:"data_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
