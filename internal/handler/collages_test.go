package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"photobooth/internal/dto"
	"photobooth/internal/model"
	"photobooth/internal/payload"
)

func TestCollages_CreateDefaultsTitle(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/collages", dto.CreateCollageRequest{Format: "grid", DataURL: "data:image/jpeg;base64,AAA="})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created dto.CreatedCollage
	decodeJSON(t, w, &created)
	if !strings.HasPrefix(created.Title, "Collage ") || created.Format != "grid" || created.ID <= 0 {
		t.Errorf("Unexpected create response %+v", created)
	}

	w = env.do(t, http.MethodGet, "/api/collages/"+itoa(created.ID), nil)
	var collage model.Collage
	decodeJSON(t, w, &collage)
	if collage.DataURL != "data:image/jpeg;base64,AAA=" || collage.Title != created.Title {
		t.Errorf("Unexpected collage %+v", collage)
	}
}

func TestCollages_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)

	for _, body := range []dto.CreateCollageRequest{
		{Title: "no format", DataURL: "data:image/jpeg;base64,AAA="},
		{Title: "no data", Format: "strip"},
	} {
		w := env.do(t, http.MethodPost, "/api/collages", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body.Title, w.Code)
		}
	}
}

func TestCollages_ListOmitsPayload(t *testing.T) {
	env := setupTestEnv(t)
	env.do(t, http.MethodPost, "/api/collages", dto.CreateCollageRequest{Title: "party", Format: "strip", DataURL: "data:image/jpeg;base64,AAA="})

	w := env.do(t, http.MethodGet, "/api/collages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var raw []map[string]json.RawMessage
	decodeJSON(t, w, &raw)
	if len(raw) != 1 {
		t.Fatalf("Expected 1 collage, got %d", len(raw))
	}
	if _, ok := raw[0]["data_url"]; ok {
		t.Error("List response must not include data_url")
	}
	if string(raw[0]["title"]) != `"party"` {
		t.Errorf("Unexpected title %s", raw[0]["title"])
	}
}

func TestCollages_DeleteNonexistent(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodDelete, "/api/collages/777", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	var body dto.Error
	decodeJSON(t, w, &body)
	if body.Error != "Collage not found" {
		t.Errorf("Unexpected error body %+v", body)
	}
}

func TestCollages_DeleteThenGet(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/collages", dto.CreateCollageRequest{Format: "grid", DataURL: "data:image/jpeg;base64,AAA="})
	var created dto.CreatedCollage
	decodeJSON(t, w, &created)

	path := "/api/collages/" + itoa(created.ID)
	if w = env.do(t, http.MethodDelete, path, nil); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w = env.do(t, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestShare_ServesRawBytes(t *testing.T) {
	env := setupTestEnv(t)
	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}

	w := env.do(t, http.MethodPost, "/api/collages", dto.CreateCollageRequest{Format: "grid", DataURL: payload.EncodeJPEG(raw)})
	var collage dto.CreatedCollage
	decodeJSON(t, w, &collage)

	w = env.do(t, http.MethodGet, "/share/collage/"+itoa(collage.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), raw) {
		t.Error("Shared bytes differ from the stored payload")
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="photobooth_collage.jpg"` {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}

	w = env.do(t, http.MethodPost, "/api/photos", dto.CreatePhotoRequest{Filename: "p.jpg", DataURL: payload.EncodeJPEG(raw)})
	var photo dto.CreatedPhoto
	decodeJSON(t, w, &photo)
	if w = env.do(t, http.MethodGet, "/share/photo/"+itoa(photo.ID), nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 for shared photo, got %d", w.Code)
	}
}

func TestShare_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/share/photo/42", http.StatusNotFound},
		{"/share/collage/42", http.StatusNotFound},
		{"/share/video/1", http.StatusNotFound},
		{"/share/photo/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := env.do(t, http.MethodGet, tt.path, nil); w.Code != tt.status {
			t.Errorf("GET %s: expected %d, got %d", tt.path, tt.status, w.Code)
		}
	}
}
