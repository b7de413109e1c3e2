// Package response provides helpers for writing consistent HTTP responses.
//
// Every handler in this application answers with JSON, except reports
// which can also be downloaded as YAML. Rather than repeating the same
// three lines (set header, set status, encode) in every handler, we
// centralise them here.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a profile, a list, a report).
// Error responses always look like:
//
//	{ "status": "error", "error": "field fullName is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error"`  // human-readable error detail
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteYAML writes data as a YAML document. Used for report downloads.
func WriteYAML(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(status)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// Message builds an error Response from a fixed message. Handlers use it
// when the underlying error must not reach the client.
func Message(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts validator field errors into a single
// human-readable Response, one sentence per failing field joined by ", ".
//
// Example output:
//
//	{ "status": "error", "error": "field fullName is required, field databases must contain at least 1 item" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "required_if":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required when %s", e.Field(), strings.Replace(e.Param(), " ", " is ", 1)))
		case "excluded_if":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s cannot be set when %s", e.Field(), strings.Replace(e.Param(), " ", " is ", 1)))
		case "oneof":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", ")))
		case "min":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must contain at least %s item", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
