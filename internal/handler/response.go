package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"library-be/internal/repository"
	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError writes a structured error response
func writeError(w http.ResponseWriter, appErr *errors.AppError, log *logger.Logger) {
	log.WithError(appErr).Error("Request error")

	response := map[string]interface{}{
		"error": map[string]interface{}{
			"type":      string(appErr.Type),
			"message":   appErr.Message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if appErr.Details != nil {
		response["error"].(map[string]interface{})["details"] = appErr.Details
	}
	writeJSON(w, appErr.StatusCode, response, log)
}

// writeFailure maps any error onto a response, keeping AppError status codes
func writeFailure(w http.ResponseWriter, err error, log *logger.Logger) {
	if appErr, ok := err.(*errors.AppError); ok {
		writeError(w, appErr, log)
		return
	}
	writeError(w, errors.NewInternalError("Internal server error", err), log)
}

// pageableFromRequest reads page, size and sort query parameters
func pageableFromRequest(r *http.Request) repository.Pageable {
	page := repository.Pageable{Size: 20}

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 0 {
		page.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 {
		page.Size = v
	}
	page.Sort = r.URL.Query().Get("sort")
	return page
}

// idFromURL reads a numeric id path parameter
func idFromURL(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// setTotalCount exposes the list total to paging clients
func setTotalCount(w http.ResponseWriter, total int64) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
}
