package service

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-profiles/internal/comments"
	"github.com/aanand-mishra/student-profiles/internal/search"
	"github.com/aanand-mishra/student-profiles/internal/storage"
	"github.com/aanand-mishra/student-profiles/internal/types"
)

// LanguageLister supplies the defined programming languages a profile may
// reference.
type LanguageLister interface {
	Names() []string
}

// ProfilesOptions configures a Profiles state object.
type ProfilesOptions struct {
	// Now stamps new comments. Defaults to time.Now.
	Now func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Profiles is the state behind the profile, search and report forms.
type Profiles struct {
	store    storage.ProfileStore
	langs    LanguageLister
	validate *validator.Validate
	now      func() time.Time
	log      *slog.Logger

	mutex sync.RWMutex
	list  []types.StudentProfile
}

// NewProfiles creates the state object. Call Refresh to populate it.
func NewProfiles(store storage.ProfileStore, langs LanguageLister, opts ProfilesOptions) *Profiles {
	p := &Profiles{
		store:    store,
		langs:    langs,
		validate: newValidator(),
		now:      opts.Now,
		log:      opts.Logger,
		list:     []types.StudentProfile{},
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so API clients see the keys they sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Refresh replaces the in-memory list with the stored one. On failure the
// previous list is kept. The lock is held across the read so a concurrent
// write cannot be overwritten by an older snapshot.
func (s *Profiles) Refresh() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	profiles, err := s.store.LoadAll()
	if err != nil {
		return fmt.Errorf("%w: load profiles: %w", ErrStorage, err)
	}
	s.list = profiles
	return nil
}

// List returns copies of every profile, sorted by name.
func (s *Profiles) List() []types.StudentProfile {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]types.StudentProfile, len(s.list))
	for i, p := range s.list {
		out[i] = p.Clone()
	}
	return out
}

// Get returns the profile whose name matches case-insensitively.
func (s *Profiles) Get(name string) (types.StudentProfile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	i := s.indexUnsafe(name)
	if i < 0 {
		return types.StudentProfile{}, fmt.Errorf("profile %q %w", strings.TrimSpace(name), ErrNotFound)
	}
	return s.list[i].Clone(), nil
}

// Search filters the in-memory profiles.
func (s *Profiles) Search(c search.Criteria) []types.StudentProfile {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return search.Filter(s.list, c)
}

// Report lists the whitelisted or blacklisted profiles.
func (s *Profiles) Report(kind search.ReportKind) []types.StudentProfile {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return search.Report(s.list, kind)
}

// Create validates p and stores it as a new profile.
func (s *Profiles) Create(p types.StudentProfile) (types.StudentProfile, error) {
	p, err := s.prepare(p)
	if err != nil {
		return types.StudentProfile{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if i := s.indexUnsafe(p.FullName); i >= 0 {
		return types.StudentProfile{}, fmt.Errorf("profile %q %w", s.list[i].FullName, ErrDuplicate)
	}

	next := make([]types.StudentProfile, 0, len(s.list)+1)
	next = append(next, s.list...)
	next = append(next, p)
	types.SortProfiles(next)

	if err := s.store.SaveAll(next); err != nil {
		s.log.Error("saving profiles failed",
			slog.String("name", p.FullName),
			slog.String("error", err.Error()))
		return types.StudentProfile{}, fmt.Errorf("%w: save profile: %w", ErrStorage, err)
	}

	s.list = next
	s.log.Info("profile saved", slog.String("name", p.FullName))
	return p.Clone(), nil
}

// Update replaces the profile stored under originalName. It fails with
// ErrUpdateRejected when the original has vanished from storage or the new
// name belongs to another profile.
func (s *Profiles) Update(originalName string, p types.StudentProfile) (types.StudentProfile, error) {
	p, err := s.prepare(p)
	if err != nil {
		return types.StudentProfile{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.replaceUnsafe(originalName, p); err != nil {
		return types.StudentProfile{}, err
	}
	s.log.Info("profile updated",
		slog.String("original", originalName),
		slog.String("name", p.FullName))
	return p.Clone(), nil
}

// Delete removes the named profile.
func (s *Profiles) Delete(name string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed, err := s.store.DeleteByName(name)
	if err != nil {
		return fmt.Errorf("%w: delete profile: %w", ErrStorage, err)
	}
	if !removed {
		return fmt.Errorf("profile %q %w", strings.TrimSpace(name), ErrNotFound)
	}

	s.reloadUnsafe(func() {
		s.list = slices.DeleteFunc(s.list, func(p types.StudentProfile) bool {
			return types.SameName(p.FullName, name)
		})
	})
	s.log.Info("profile deleted", slog.String("name", name))
	return nil
}

// AddComment appends a dated comment to the named profile.
func (s *Profiles) AddComment(name, text string) (types.StudentProfile, error) {
	stamped, err := comments.Stamp(s.now(), text)
	if err != nil {
		return types.StudentProfile{}, invalid("Enter a comment before adding it.")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	i := s.indexUnsafe(name)
	if i < 0 {
		return types.StudentProfile{}, fmt.Errorf("profile %q %w", strings.TrimSpace(name), ErrNotFound)
	}

	updated := s.list[i].Clone()
	updated.Comments = append(updated.Comments, stamped)
	if err := s.replaceUnsafe(updated.FullName, updated); err != nil {
		return types.StudentProfile{}, err
	}
	s.log.Info("comment added", slog.String("name", updated.FullName))
	return updated.Clone(), nil
}

// replaceUnsafe writes through UpdateProfile and syncs memory. Callers
// hold the write lock.
func (s *Profiles) replaceUnsafe(originalName string, p types.StudentProfile) error {
	ok, err := s.store.UpdateProfile(originalName, p)
	if err != nil {
		return fmt.Errorf("%w: update profile: %w", ErrStorage, err)
	}
	if !ok {
		return ErrUpdateRejected
	}

	s.reloadUnsafe(func() {
		if i := s.indexUnsafe(originalName); i >= 0 {
			s.list[i] = p.Clone()
		} else {
			s.list = append(s.list, p.Clone())
		}
		types.SortProfiles(s.list)
	})
	return nil
}

// reloadUnsafe re-reads the store after a successful write. When that
// read fails the write is mirrored in memory by fallback instead.
func (s *Profiles) reloadUnsafe(fallback func()) {
	profiles, err := s.store.LoadAll()
	if err != nil {
		s.log.Warn("profile saved, but unable to reload the latest records",
			slog.String("error", err.Error()))
		fallback()
		return
	}
	s.list = profiles
}

func (s *Profiles) indexUnsafe(name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	return slices.IndexFunc(s.list, func(p types.StudentProfile) bool {
		return types.SameName(p.FullName, name)
	})
}

// prepare normalises p and checks it against the form rules.
func (s *Profiles) prepare(p types.StudentProfile) (types.StudentProfile, error) {
	p = normalise(p)

	if err := s.validate.Struct(p); err != nil {
		if fields, ok := err.(validator.ValidationErrors); ok {
			return types.StudentProfile{}, &ValidationError{Fields: fields}
		}
		return types.StudentProfile{}, err
	}

	defined := s.langs.Names()
	if len(defined) == 0 {
		return types.StudentProfile{}, invalid("Define programming languages first.")
	}
	for i, lang := range p.ProgrammingLanguages {
		j := slices.IndexFunc(defined, func(d string) bool { return types.SameName(d, lang) })
		if j < 0 {
			return types.StudentProfile{}, invalid(fmt.Sprintf("Programming language %q is not defined.", lang))
		}
		p.ProgrammingLanguages[i] = defined[j]
	}
	return p, nil
}

// normalise trims text, drops blank and repeated list entries, and maps
// option values onto their canonical spelling.
func normalise(p types.StudentProfile) types.StudentProfile {
	p = p.Clone()
	p.FullName = strings.TrimSpace(p.FullName)
	p.AcademicStatus = canonical(types.AcademicStatuses, p.AcademicStatus)
	p.PreferredRole = canonical(types.PreferredRoles, p.PreferredRole)
	p.JobDetails = strings.TrimSpace(p.JobDetails)
	if !p.Employed {
		p.JobDetails = ""
	}

	p.ProgrammingLanguages = uniqueFold(p.ProgrammingLanguages)
	p.Databases = uniqueFold(p.Databases)
	for i, db := range p.Databases {
		p.Databases[i] = canonical(types.DatabaseOptions, db)
	}

	kept := make([]string, 0, len(p.Comments))
	for _, c := range p.Comments {
		if c = strings.TrimSpace(c); c != "" {
			kept = append(kept, c)
		}
	}
	p.Comments = kept
	return p
}

func canonical(options []string, value string) string {
	value = strings.TrimSpace(value)
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return o
		}
	}
	return value
}

func uniqueFold(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.ContainsFunc(out, func(o string) bool { return strings.EqualFold(o, v) }) {
			continue
		}
		out = append(out, v)
	}
	return out
}
