package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"photobooth/internal/config"
	"photobooth/internal/logger"
	"photobooth/internal/model"
	"photobooth/internal/payload"
	"photobooth/internal/repository"
	"photobooth/internal/share"
)

const maxQRSize = 1024

// MediaStore groups the repositories for endpoints that serve either kind.
type MediaStore struct {
	Photos   repository.PhotoRepository
	Collages repository.CollageRepository
}

type storedImage struct {
	dataURL  string
	filename string
}

func (m MediaStore) lookup(ctx context.Context, kind model.Kind, id int64) (*storedImage, error) {
	switch kind {
	case model.KindPhoto:
		photo, err := m.Photos.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &storedImage{dataURL: photo.DataURL, filename: filepath.Base(photo.Filename)}, nil
	case model.KindCollage:
		collage, err := m.Collages.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &storedImage{dataURL: collage.DataURL, filename: fmt.Sprintf("collage_%d", collage.ID)}, nil
	}
	return nil, fmt.Errorf("unknown media kind %q", kind)
}

func kindTitle(kind model.Kind) string {
	if kind == model.KindCollage {
		return "Collage"
	}
	return "Photo"
}

// DownloadHandler re-serves a stored image as an attachment named after the record.
func DownloadHandler(logger *logger.Logger, store MediaStore, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveStoredImage(w, r, logger, store, kind, false)
	}
}

// ShareHandler serves /share/{kind}/{id}, the link encoded in QR codes.
func ShareHandler(logger *logger.Logger, store MediaStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := model.ParseKind(r.PathValue("kind"))
		if !ok {
			writeError(w, logger, http.StatusNotFound, "Unknown media kind", nil)
			return
		}
		serveStoredImage(w, r, logger, store, kind, true)
	}
}

func serveStoredImage(w http.ResponseWriter, r *http.Request, logger *logger.Logger, store MediaStore, kind model.Kind, shared bool) {
	title := kindTitle(kind)
	id, ok := pathID(r)
	if !ok {
		writeError(w, logger, http.StatusBadRequest, "Invalid "+strings.ToLower(title)+" id", nil)
		return
	}

	stored, err := store.lookup(r.Context(), kind, id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, logger, http.StatusNotFound, title+" not found", nil)
		return
	}
	if err != nil {
		logger.Error("Error loading %s %d: %v", kind, id, err)
		writeError(w, logger, http.StatusInternalServerError, "Failed to serve "+strings.ToLower(title), err)
		return
	}

	img, err := payload.Decode(stored.dataURL)
	if err != nil {
		logger.Warning("Stored %s %d has an unusable payload: %v", kind, id, err)
		writeError(w, logger, http.StatusBadRequest, "Stored image is not a valid data URL", nil)
		return
	}

	filename := stored.filename
	if shared {
		filename = "photobooth_" + string(kind)
	}
	if filepath.Ext(filename) == "" {
		filename += payload.Extension(img.MIME)
	}

	w.Header().Set("Content-Type", img.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

// QRHandler renders a PNG QR code pointing LAN devices at the record's download URL.
func QRHandler(cfg *config.Config, logger *logger.Logger, store MediaStore, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := kindTitle(kind)
		id, ok := pathID(r)
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid "+strings.ToLower(title)+" id", nil)
			return
		}

		if _, err := store.lookup(r.Context(), kind, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, logger, http.StatusNotFound, title+" not found", nil)
				return
			}
			logger.Error("Error loading %s %d: %v", kind, id, err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to generate QR code", err)
			return
		}

		size := atoiDefault(r.URL.Query().Get("size"), share.DefaultSize)
		if size > maxQRSize {
			size = maxQRSize
		}

		link := fmt.Sprintf("%s/api/%ss/%d/download", NetworkBaseURL(cfg), kind, id)
		png, err := share.PNG(link, size)
		if err != nil {
			logger.Error("Error generating QR for %s: %v", link, err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to generate QR code", err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Share-URL", link)
		w.Write(png)
	}
}
