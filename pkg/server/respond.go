package server

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/pqcgraph/pkg/errors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMode, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidID, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeEntityNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDatasetLoad, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, statusFor(code), map[string]errorBody{"error": {
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	}})
}

func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(data) > maxBodyBytes {
		return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBodyBytes)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func badRequest(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

