package dto

// Event is broadcast to gallery viewers when the media store changes.
type Event struct {
	Type string `json:"type"` // "created" or "deleted"
	Kind string `json:"kind"` // "photo" or "collage"
	ID   int64  `json:"id"`
}
