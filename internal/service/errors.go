package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrDuplicate      = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrUpdateRejected = errors.New("update rejected: the name must be unique and the original record must still exist")
	ErrStorage        = errors.New("storage failure")
)

// ValidationError describes input that was rejected before reaching
// storage. Fields is set when the failure came from struct tags.
type ValidationError struct {
	Fields  validator.ValidationErrors
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, " ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// fieldMessage phrases a tag failure the way the profile form does.
func fieldMessage(fe validator.FieldError) string {
	field, _, element := strings.Cut(fe.StructField(), "[")
	if element {
		return fmt.Sprintf("%q is not a valid %s entry.", fe.Value(), fieldLabel(field))
	}
	switch field {
	case "FullName":
		return "Full Name is required."
	case "AcademicStatus":
		return "Select the academic status."
	case "JobDetails":
		return "Provide job details for employed students."
	case "ProgrammingLanguages":
		return "Select at least one programming language."
	case "Databases":
		return "Select at least one database."
	case "PreferredRole":
		return "Select the preferred professional role."
	case "Blacklist":
		return "Choose either whitelist or blacklist, not both."
	default:
		return fe.Error()
	}
}

func fieldLabel(field string) string {
	switch field {
	case "ProgrammingLanguages":
		return "programming language"
	case "Databases":
		return "database"
	default:
		return "comment"
	}
}
