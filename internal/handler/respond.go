package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"photobooth/internal/dto"
	"photobooth/internal/logger"
)

// EventPublisher is notified after the media store changes. It may be nil.
type EventPublisher interface {
	Publish(event dto.Event)
}

func publish(events EventPublisher, event dto.Event) {
	if events != nil {
		events.Publish(event)
	}
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// writeError sends {error, message}. cause is only included for server errors.
func writeError(w http.ResponseWriter, logger *logger.Logger, status int, msg string, cause error) {
	body := dto.Error{Error: msg}
	if cause != nil {
		body.Message = cause.Error()
	}
	writeJSON(w, logger, status, body)
}

// pathID parses the {id} wildcard.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody reads a size-limited JSON body into v and reports the status to
// answer with on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) (int, error) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, err
		}
		return http.StatusBadRequest, err
	}
	return 0, nil
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// listLimit honours ?limit= up to the configured cap.
func listLimit(r *http.Request, max int) int {
	limit := atoiDefault(r.URL.Query().Get("limit"), max)
	if max > 0 && limit > max {
		return max
	}
	return limit
}
