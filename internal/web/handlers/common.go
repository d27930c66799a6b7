package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/petface/internal/analysis"
	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/detector"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Success: false, Error: message})
}

// statusFor maps a service error to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrUnknownSpecies):
		return http.StatusBadRequest, "pet_type must be one of: dog, cat"
	case errors.Is(err, catalog.ErrBreedNotFound):
		return http.StatusNotFound, "breed not found"
	case errors.Is(err, analysis.ErrInvalidImage):
		return http.StatusBadRequest, "invalid image: JPEG, PNG and WEBP are accepted"
	case errors.Is(err, detector.ErrNoFace):
		return http.StatusUnprocessableEntity, "no face detected in the image"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "landmark detector timed out"
	case errors.Is(err, detector.ErrUnavailable):
		return http.StatusBadGateway, "landmark detector unavailable"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondServiceError logs err and sends the mapped error response.
func respondServiceError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	status, msg := statusFor(err)
	entry := requestLog(log, r).WithFields(logrus.Fields{
		"status": status,
		"error":  sanitizeForLog(err.Error()),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}
	respondError(w, status, msg)
}

// requestLog returns a log entry tagged with the chi request ID.
func requestLog(log logrus.FieldLogger, r *http.Request) *logrus.Entry {
	return log.WithField("request_id", chiMiddleware.GetReqID(r.Context()))
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
