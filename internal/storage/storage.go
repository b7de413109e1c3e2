// Package storage defines the contracts that any persistence backend must
// satisfy to work with this application.
//
// Two independent stores exist, one per entity kind. Both follow the same
// "load all, mutate in memory, write all back" model: there is no
// partial update and no caching below the service layer.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-profiles/internal/types"
)

// ErrCorruptRecord is returned by a strict store when a stored record
// cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt stored record")

// LanguageStore persists the list of programming language names.
type LanguageStore interface {
	// LoadAll returns every stored language sorted case-insensitively.
	// A store with nothing saved yet returns an empty slice.
	LoadAll() ([]types.Language, error)

	// SaveAll replaces the stored list. The store does NOT deduplicate;
	// callers reject duplicates before getting here.
	SaveAll(languages []types.Language) error
}

// ProfileStore persists student profiles keyed by full name.
type ProfileStore interface {
	// LoadAll returns every stored profile sorted by name, case-insensitively.
	LoadAll() ([]types.StudentProfile, error)

	// SaveAll replaces the stored profiles.
	SaveAll(profiles []types.StudentProfile) error

	// DeleteByName removes the profile whose name matches (case-insensitive)
	// and reports whether anything was removed.
	DeleteByName(name string) (bool, error)

	// UpdateProfile replaces the profile stored under originalName.
	// It returns false, without writing, when originalName no longer exists
	// or when updated.FullName belongs to a different stored profile.
	UpdateProfile(originalName string, updated types.StudentProfile) (bool, error)
}
