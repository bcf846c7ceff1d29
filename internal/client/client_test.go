package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photobooth/internal/dto"
	"photobooth/internal/logger"
	"photobooth/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	c, err := New(Config{BaseURL: srv.URL + "/", Logger: logger.NewWriter(&logs)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, &logs
}

func TestSave_Photo(t *testing.T) {
	var got dto.CreatePhotoRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/photos" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"id":42,"filename":"x.jpg"}`))
	})

	saved, err := c.Save(context.Background(), model.KindPhoto, []byte{0xff, 0xd8}, Meta{})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ID != 42 {
		t.Errorf("Expected id 42, got %d", saved.ID)
	}
	if saved.ShareURL != c.Origin()+"/share/photo/42" {
		t.Errorf("Unexpected share URL %q", saved.ShareURL)
	}
	if !strings.HasPrefix(got.Filename, "photobooth_") || !strings.HasSuffix(got.Filename, ".jpg") {
		t.Errorf("Expected generated filename, got %q", got.Filename)
	}
	if got.DataURL != "data:image/jpeg;base64,/9g=" {
		t.Errorf("Unexpected data url %q", got.DataURL)
	}
}

func TestSave_Collage(t *testing.T) {
	var got dto.CreateCollageRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/collages" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"id":7}`))
	})

	saved, err := c.Save(context.Background(), model.KindCollage, []byte("jpeg"), Meta{Format: "strip"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got.Format != "strip" {
		t.Errorf("Expected format strip, got %q", got.Format)
	}
	if !strings.HasSuffix(saved.ShareURL, "/share/collage/7") {
		t.Errorf("Unexpected share URL %q", saved.ShareURL)
	}
}

func TestSave_ServerErrorIsPersistenceFailure(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to save photo"}`, http.StatusInternalServerError)
	})

	saved, err := c.Save(context.Background(), model.KindPhoto, []byte("x"), Meta{Filename: "a.jpg"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Expected ErrPersistence, got %v", err)
	}
	if saved != nil {
		t.Errorf("Expected no result, got %+v", saved)
	}
	if !strings.Contains(logs.String(), "status=500") {
		t.Errorf("Expected failure to be logged, got %q", logs.String())
	}
}

func TestSave_Unreachable(t *testing.T) {
	c, err := New(Config{BaseURL: "http://127.0.0.1:1", Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.Save(context.Background(), model.KindPhoto, []byte("x"), Meta{}); !errors.Is(err, ErrPersistence) {
		t.Errorf("Expected ErrPersistence, got %v", err)
	}
}

func TestSave_MissingID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})
	if _, err := c.Save(context.Background(), model.KindPhoto, []byte("x"), Meta{}); !errors.Is(err, ErrPersistence) {
		t.Errorf("Expected ErrPersistence, got %v", err)
	}
}

func TestNetworkBaseURL(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"baseURL":"http://192.168.1.20:3000"}`))
	})

	got, err := c.NetworkBaseURL(context.Background())
	if err != nil {
		t.Fatalf("NetworkBaseURL failed: %v", err)
	}
	if got != "http://192.168.1.20:3000" {
		t.Errorf("Unexpected base URL %q", got)
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("Expected error for empty base URL")
	}
}

func TestShareURL(t *testing.T) {
	if got := ShareURL("http://host:3000/", model.KindCollage, 3); got != "http://host:3000/share/collage/3" {
		t.Errorf("Unexpected share URL %q", got)
	}
}
