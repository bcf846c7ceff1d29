package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"photobooth/internal/config"
	"photobooth/internal/dto"
	"photobooth/internal/logger"
	"photobooth/internal/model"
	"photobooth/internal/repository"
)

// ListCollagesHandler returns collage metadata without payloads.
func ListCollagesHandler(cfg *config.Config, logger *logger.Logger, collages repository.CollageRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := collages.List(r.Context(), listLimit(r, cfg.CollageListLimit))
		if err != nil {
			logger.Error("Error querying collages: %v", err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch collages", err)
			return
		}
		if list == nil {
			list = []model.Collage{}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

func GetCollageHandler(logger *logger.Logger, collages repository.CollageRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid collage id", nil)
			return
		}

		collage, err := collages.GetByID(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, logger, http.StatusNotFound, "Collage not found", nil)
			return
		}
		if err != nil {
			logger.Error("Error fetching collage %d: %v", id, err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch collage", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, collage)
	}
}

// CreateCollageHandler stores {title?, format, data_url}. A missing title
// becomes "Collage <unix millis>".
func CreateCollageHandler(cfg *config.Config, logger *logger.Logger, collages repository.CollageRepository, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateCollageRequest
		if status, err := decodeBody(w, r, cfg.MaxBodyBytes, &req); err != nil {
			writeError(w, logger, status, "Invalid request body", err)
			return
		}

		req.Format = strings.TrimSpace(req.Format)
		if req.Format == "" || req.DataURL == "" {
			writeError(w, logger, http.StatusBadRequest, "format and data_url are required", nil)
			return
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = fmt.Sprintf("Collage %d", time.Now().UnixMilli())
		}

		collage := &model.Collage{Title: title, Format: req.Format, DataURL: req.DataURL}
		id, err := collages.Insert(r.Context(), collage)
		if err != nil {
			logger.Error("Error saving collage: %v", err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to save collage", err)
			return
		}

		logger.Info("Saved collage %d (%s, %s)", id, collage.Title, collage.Format)
		publish(events, dto.Event{Type: "created", Kind: string(model.KindCollage), ID: id})

		writeJSON(w, logger, http.StatusCreated, dto.CreatedCollage{
			Success:   true,
			ID:        id,
			Title:     collage.Title,
			Format:    collage.Format,
			CreatedAt: collage.CreatedAt,
			Message:   "Collage saved successfully",
		})
	}
}

func DeleteCollageHandler(logger *logger.Logger, collages repository.CollageRepository, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid collage id", nil)
			return
		}

		err := collages.Delete(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, logger, http.StatusNotFound, "Collage not found", nil)
			return
		}
		if err != nil {
			logger.Error("Error deleting collage %d: %v", id, err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to delete collage", err)
			return
		}

		logger.Info("Deleted collage %d", id)
		publish(events, dto.Event{Type: "deleted", Kind: string(model.KindCollage), ID: id})
		writeJSON(w, logger, http.StatusOK, dto.Deleted{Success: true, Message: "Collage deleted successfully"})
	}
}
