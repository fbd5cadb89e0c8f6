package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// ErrorCode is a machine-readable error code returned in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeNotFound           ErrorCode = "not_found"
	CodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrInvalidOptions, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrInvalidProduct, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, CodeCatalogUnavailable),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidOptions,
		domain.ErrInvalidProduct,
		domain.ErrVectorDimMismatch,
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrCatalogUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	if errors.Is(err, domain.ErrInvalidOptions) {
		// Option errors carry the offending value and are safe to echo.
		msg = err.Error()
	}
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
