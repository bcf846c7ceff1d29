package dto

// CreatePhotoRequest is the body of POST /api/photos.
type CreatePhotoRequest struct {
	Filename string `json:"filename"`
	DataURL  string `json:"data_url"`
}

// CreateCollageRequest is the body of POST /api/collages. Title is optional.
type CreateCollageRequest struct {
	Title   string `json:"title,omitempty"`
	Format  string `json:"format"`
	DataURL string `json:"data_url"`
}
