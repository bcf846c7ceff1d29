package handler

import (
	"errors"
	"net/http"
	"strings"

	"photobooth/internal/config"
	"photobooth/internal/dto"
	"photobooth/internal/logger"
	"photobooth/internal/model"
	"photobooth/internal/repository"
)

// ListPhotosHandler returns the most recent photos, newest first.
func ListPhotosHandler(cfg *config.Config, logger *logger.Logger, photos repository.PhotoRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := photos.List(r.Context(), listLimit(r, cfg.PhotoListLimit))
		if err != nil {
			logger.Error("Error querying photos: %v", err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch photos", err)
			return
		}
		if list == nil {
			list = []model.Photo{}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// GetPhotoHandler returns one photo including its payload.
func GetPhotoHandler(logger *logger.Logger, photos repository.PhotoRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid photo id", nil)
			return
		}

		photo, err := photos.GetByID(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, logger, http.StatusNotFound, "Photo not found", nil)
			return
		}
		if err != nil {
			logger.Error("Error fetching photo %d: %v", id, err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch photo", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, photo)
	}
}

// CreatePhotoHandler stores a photo sent as {filename, data_url}.
func CreatePhotoHandler(cfg *config.Config, logger *logger.Logger, photos repository.PhotoRepository, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreatePhotoRequest
		if status, err := decodeBody(w, r, cfg.MaxBodyBytes, &req); err != nil {
			writeError(w, logger, status, "Invalid request body", err)
			return
		}

		req.Filename = strings.TrimSpace(req.Filename)
		if req.Filename == "" || req.DataURL == "" {
			writeError(w, logger, http.StatusBadRequest, "filename and data_url are required", nil)
			return
		}

		photo := &model.Photo{Filename: req.Filename, DataURL: req.DataURL}
		id, err := photos.Insert(r.Context(), photo)
		if err != nil {
			logger.Error("Error saving photo %s: %v", req.Filename, err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to save photo", err)
			return
		}

		logger.Info("Saved photo %d (%s)", id, photo.Filename)
		publish(events, dto.Event{Type: "created", Kind: string(model.KindPhoto), ID: id})

		writeJSON(w, logger, http.StatusCreated, dto.CreatedPhoto{
			Success:   true,
			ID:        id,
			Filename:  photo.Filename,
			CreatedAt: photo.CreatedAt,
			Message:   "Photo saved successfully",
		})
	}
}

// DeletePhotoHandler removes a photo; unknown ids get 404.
func DeletePhotoHandler(logger *logger.Logger, photos repository.PhotoRepository, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid photo id", nil)
			return
		}

		err := photos.Delete(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, logger, http.StatusNotFound, "Photo not found", nil)
			return
		}
		if err != nil {
			logger.Error("Error deleting photo %d: %v", id, err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to delete photo", err)
			return
		}

		logger.Info("Deleted photo %d", id)
		publish(events, dto.Event{Type: "deleted", Kind: string(model.KindPhoto), ID: id})
		writeJSON(w, logger, http.StatusOK, dto.Deleted{Success: true, Message: "Photo deleted successfully"})
	}
}
