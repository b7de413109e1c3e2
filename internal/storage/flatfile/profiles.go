package flatfile

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aanand-mishra/student-profiles/internal/storage"
	"github.com/aanand-mishra/student-profiles/internal/types"
)

// ProfileOptions tunes how a ProfileStore treats damaged input.
type ProfileOptions struct {
	// Strict makes LoadAll fail with storage.ErrCorruptRecord on the first
	// undecodable line. When false such lines are skipped and logged.
	Strict bool

	// Logger receives malformed-record warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// ProfileStore keeps one encoded StudentProfile per line.
type ProfileStore struct {
	path   string
	strict bool
	log    *slog.Logger
	mutex  sync.Mutex
}

// NewProfileStore creates a store backed by the file at path.
func NewProfileStore(path string, opts ProfileOptions) *ProfileStore {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &ProfileStore{path: path, strict: opts.Strict, log: log}
}

// Path returns the backing file location.
func (s *ProfileStore) Path() string { return s.path }

// LoadAll decodes every stored profile and returns them sorted by name.
func (s *ProfileStore) LoadAll() ([]types.StudentProfile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	profiles, err := s.loadUnsafe()
	if err != nil {
		return nil, fmt.Errorf("ProfileStore.LoadAll: %w", err)
	}
	return profiles, nil
}

// SaveAll sorts by name and overwrites the file with the encoded profiles.
func (s *ProfileStore) SaveAll(profiles []types.StudentProfile) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.saveUnsafe(profiles); err != nil {
		return fmt.Errorf("ProfileStore.SaveAll: %w", err)
	}
	return nil
}

// DeleteByName removes every profile whose name matches case-insensitively.
// The file is rewritten only when something was removed.
func (s *ProfileStore) DeleteByName(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	profiles, err := s.loadUnsafe()
	if err != nil {
		return false, fmt.Errorf("ProfileStore.DeleteByName: %w", err)
	}

	kept := profiles[:0]
	for _, p := range profiles {
		if !types.SameName(p.FullName, name) {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(profiles) {
		return false, nil
	}

	if err := s.saveUnsafe(kept); err != nil {
		return false, fmt.Errorf("ProfileStore.DeleteByName: %w", err)
	}
	return true, nil
}

// UpdateProfile replaces the record stored under originalName with updated.
func (s *ProfileStore) UpdateProfile(originalName string, updated types.StudentProfile) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	profiles, err := s.loadUnsafe()
	if err != nil {
		return false, fmt.Errorf("ProfileStore.UpdateProfile: %w", err)
	}

	idx := -1
	for i, p := range profiles {
		if types.SameName(p.FullName, originalName) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	for i, p := range profiles {
		if i != idx && types.SameName(p.FullName, updated.FullName) {
			return false, nil
		}
	}

	profiles[idx] = updated.Clone()
	if err := s.saveUnsafe(profiles); err != nil {
		return false, fmt.Errorf("ProfileStore.UpdateProfile: %w", err)
	}
	return true, nil
}

// loadUnsafe reads the file without taking the lock.
func (s *ProfileStore) loadUnsafe() ([]types.StudentProfile, error) {
	lines, err := readLines(s.path)
	if err != nil {
		return nil, err
	}

	profiles := make([]types.StudentProfile, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := decodeLine(line)
		if err != nil {
			if s.strict {
				return nil, fmt.Errorf("%w: %s line %d: %v", storage.ErrCorruptRecord, s.path, i+1, err)
			}
			s.log.Warn("skipping malformed profile record",
				slog.String("path", s.path),
				slog.Int("line", i+1),
				slog.String("error", err.Error()))
			continue
		}
		profiles = append(profiles, p)
	}

	types.SortProfiles(profiles)
	return profiles, nil
}

// saveUnsafe writes the file without taking the lock.
func (s *ProfileStore) saveUnsafe(profiles []types.StudentProfile) error {
	sorted := make([]types.StudentProfile, len(profiles))
	copy(sorted, profiles)
	types.SortProfiles(sorted)

	lines := make([]string, len(sorted))
	for i, p := range sorted {
		lines[i] = encodeLine(p)
	}
	return writeLines(s.path, lines)
}
