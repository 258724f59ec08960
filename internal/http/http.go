package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"budgetplan/internal/services/budget"
	"budgetplan/internal/services/storage"
)

// maxBodyBytes bounds request bodies; every payload is a small JSON object
const maxBodyBytes = 1 << 20

// ErrBadRequest marks a request body that could not be decoded
var ErrBadRequest = errors.New("bad request")

// WriteJSON sends v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// ErrorResponse sends an error response
func ErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	log.Printf("Error: %s (status %d)", message, statusCode)
	WriteJSON(w, statusCode, map[string]string{"error": message})
}

// Error sends err with the status code StatusForError picks for it
func Error(w http.ResponseWriter, err error) {
	ErrorResponse(w, err.Error(), StatusForError(err))
}

// StatusForError maps engine and storage errors to HTTP status codes
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, storage.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrPasswordTooShort):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrAlreadyEncrypted), errors.Is(err, storage.ErrNotEncrypted):
		return http.StatusConflict
	case errors.Is(err, budget.ErrUnknownPeriod), errors.Is(err, budget.ErrUnknownEntry):
		return http.StatusNotFound
	case budget.IsValidation(err):
		return http.StatusUnprocessableEntity
	case budget.IsInvariant(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// DecodeJSON reads a JSON request body into v. Unknown fields are rejected
// so typos in field names do not pass silently.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// DecodeOptionalJSON is DecodeJSON for endpoints whose body may be omitted
func DecodeOptionalJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return DecodeJSON(r, v)
}
