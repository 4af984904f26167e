package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sysmap/sam/pkg/errors"
	"github.com/sysmap/sam/pkg/i18n"
)

// urlParam reads a chi URL parameter.
func urlParam(r *http.Request, name string) string { return chi.URLParam(r, name) }

// errorResponse is the JSON error envelope. Detail is localized for the
// requesting user; Code is stable for programmatic handling.
type errorResponse struct {
	Detail    string      `json:"detail"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// statusForCode maps structured error codes to HTTP statuses.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidType,
		errors.ErrCodeInvalidStatus, errors.ErrCodeInvalidCriticality,
		errors.ErrCodeInvalidDepth:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeIntegrity:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageKeys maps error codes to their message catalog paths.
var messageKeys = map[errors.Code]string{
	errors.ErrCodeInvalidInput:       "errors.invalid_input",
	errors.ErrCodeInvalidType:        "errors.invalid_input",
	errors.ErrCodeInvalidStatus:      "errors.invalid_input",
	errors.ErrCodeInvalidCriticality: "errors.invalid_input",
	errors.ErrCodeInvalidDepth:       "errors.invalid_depth",
	errors.ErrCodeNotFound:           "errors.not_found",
	errors.ErrCodeConflict:           "errors.conflict",
	errors.ErrCodeIntegrity:          "errors.integrity",
	errors.ErrCodeUnauthorized:       "errors.unauthorized",
	errors.ErrCodeForbidden:          "errors.forbidden",
	errors.ErrCodeNetwork:            "errors.network",
	errors.ErrCodeTimeout:            "errors.timeout",
	errors.ErrCodeUnavailable:        "errors.unavailable",
	errors.ErrCodeUnsupported:        "errors.unsupported",
	errors.ErrCodeInternal:           "errors.internal",
}

// respondJSON writes v as a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response",
			"path", r.URL.Path,
			"request_id", requestIDFromContext(r.Context()),
			"err", err)
	}
}

// respondError translates a structured error into a status and localized
// detail. The raw message detail is interpolated into the localized
// template where the catalog expects one; codes the catalog doesn't know
// fall back to the internal-error message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusForCode(code)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"status", status,
			"request_id", requestIDFromContext(r.Context()),
			"err", err)
	}

	key, ok := messageKeys[code]
	if !ok {
		key = "errors.internal"
	}
	lang := s.requestLanguage(r)
	detail := s.bundle.T(lang, key, i18n.Params{
		"detail": errors.UserMessage(err),
	})

	s.respondJSON(w, r, status, errorResponse{
		Detail:    detail,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// respondErrorKey renders an error with a specific message catalog key,
// for messages with structured parameters like record ids.
func (s *Server) respondErrorKey(w http.ResponseWriter, r *http.Request, err error, key string, params i18n.Params) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.respondJSON(w, r, statusForCode(code), errorResponse{
		Detail:    s.bundle.T(s.requestLanguage(r), key, params),
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// requestLanguage resolves the response language from Accept-Language,
// falling back to the server default.
func (s *Server) requestLanguage(r *http.Request) string {
	if header := r.Header.Get("Accept-Language"); header != "" {
		return s.bundle.Match(header)
	}
	return s.lang
}

// pathID parses a numeric id URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := urlParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning def
// when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return n, nil
}

// queryID parses a required numeric id query parameter.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return id, nil
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
