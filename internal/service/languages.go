// Package service holds the in-memory state behind the language and profile
// forms. Each state object owns a sorted copy of its store's contents,
// validates input before writing, and keeps memory and disk in step when a
// write fails.
package service

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aanand-mishra/student-profiles/internal/storage"
	"github.com/aanand-mishra/student-profiles/internal/types"
)

// Languages is the state behind the language form.
type Languages struct {
	store storage.LanguageStore
	log   *slog.Logger

	mutex sync.RWMutex
	list  []types.Language
}

// NewLanguages creates the state object. Call Refresh to populate it.
func NewLanguages(store storage.LanguageStore, log *slog.Logger) *Languages {
	if log == nil {
		log = slog.Default()
	}
	return &Languages{store: store, log: log, list: []types.Language{}}
}

// Refresh replaces the in-memory list with the stored one. On failure the
// previous list is kept. The lock is held across the read so a concurrent
// Add cannot be overwritten by an older snapshot.
func (l *Languages) Refresh() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	langs, err := l.store.LoadAll()
	if err != nil {
		return fmt.Errorf("%w: load languages: %w", ErrStorage, err)
	}
	l.list = langs
	return nil
}

// List returns a copy of the sorted language list.
func (l *Languages) List() []types.Language {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]types.Language, len(l.list))
	copy(out, l.list)
	return out
}

// Names returns the language names in display order.
func (l *Languages) Names() []string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]string, len(l.list))
	for i, lang := range l.list {
		out[i] = lang.Name
	}
	return out
}

// Add defines a new language. Names are unique regardless of case.
func (l *Languages) Add(name string) (types.Language, error) {
	lang := types.Language{Name: strings.TrimSpace(name)}
	if lang.Name == "" {
		return types.Language{}, invalid("Language name is required.")
	}
	if strings.ContainsAny(lang.Name, "\r\n") {
		return types.Language{}, invalid("Language name must fit on one line.")
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, existing := range l.list {
		if types.SameName(existing.Name, lang.Name) {
			return types.Language{}, fmt.Errorf("language %q %w", existing.Name, ErrDuplicate)
		}
	}

	previous := l.list
	next := make([]types.Language, 0, len(previous)+1)
	next = append(next, previous...)
	next = append(next, lang)
	types.SortLanguages(next)

	if err := l.store.SaveAll(next); err != nil {
		l.log.Error("saving languages failed",
			slog.String("language", lang.Name),
			slog.String("error", err.Error()))
		return types.Language{}, fmt.Errorf("%w: save languages: %w", ErrStorage, err)
	}

	l.list = next
	l.log.Info("language added", slog.String("language", lang.Name))
	return lang, nil
}
