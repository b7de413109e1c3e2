// Package handlers holds what the resource handler packages share: turning
// service errors into HTTP responses and decoding request bodies.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-profiles/internal/service"
	"github.com/aanand-mishra/student-profiles/internal/utils/response"
)

// WriteError maps a service error to its status code. Storage failures
// are logged and answered with storageMsg so file paths and driver errors
// stay out of responses.
//
//	400 validation
//	404 not found
//	409 duplicate or rejected update
//	500 everything else
func WriteError(w http.ResponseWriter, err error, storageMsg string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verr.Fields))
			return
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, service.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, service.ErrDuplicate), errors.Is(err, service.ErrUpdateRejected):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.Message(storageMsg))
	}
}

// DecodeJSON reads the request body into v, answering 400 itself when the
// body is empty or malformed. It reports whether the caller may continue.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}
