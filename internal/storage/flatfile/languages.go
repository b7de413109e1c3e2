package flatfile

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aanand-mishra/student-profiles/internal/types"
)

// LanguageStore keeps one language name per line in a UTF-8 text file.
type LanguageStore struct {
	path  string
	mutex sync.RWMutex
}

// NewLanguageStore creates a store backed by the file at path. The file
// and its directory are created lazily.
func NewLanguageStore(path string) *LanguageStore {
	return &LanguageStore{path: path}
}

// Path returns the backing file location.
func (s *LanguageStore) Path() string { return s.path }

// LoadAll reads every non-blank line, trimmed, sorted case-insensitively.
func (s *LanguageStore) LoadAll() ([]types.Language, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	lines, err := readLines(s.path)
	if err != nil {
		return nil, fmt.Errorf("LanguageStore.LoadAll: %w", err)
	}

	languages := make([]types.Language, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		languages = append(languages, types.Language{Name: name})
	}
	types.SortLanguages(languages)
	return languages, nil
}

// SaveAll writes the trimmed, non-blank names sorted case-insensitively,
// replacing the previous contents. Duplicates are written as given.
func (s *LanguageStore) SaveAll(languages []types.Language) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sorted := make([]types.Language, 0, len(languages))
	for _, l := range languages {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		sorted = append(sorted, types.Language{Name: name})
	}
	types.SortLanguages(sorted)

	lines := make([]string, len(sorted))
	for i, l := range sorted {
		lines[i] = l.Name
	}

	if err := writeLines(s.path, lines); err != nil {
		return fmt.Errorf("LanguageStore.SaveAll: %w", err)
	}
	return nil
}
