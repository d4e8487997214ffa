package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/validation"
)

// errorResponse is the body of every API error.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, common.ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, common.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal detail of unexpected failures.
func publicMessage(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		return common.ErrorInternal.Error()
	case http.StatusBadGateway:
		return common.ErrServiceUnavailable.Error()
	case http.StatusServiceUnavailable:
		return common.ErrConfiguration.Error()
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return common.ErrValidation.Error()
	}
	return err.Error()
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	body := errorResponse{Error: publicMessage(err, status)}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
