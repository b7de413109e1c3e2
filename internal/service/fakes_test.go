package service

import (
	"errors"
	"sync"

	"github.com/aanand-mishra/student-profiles/internal/types"
)

var errDisk = errors.New("disk full")

type fakeLanguageStore struct {
	mutex   sync.Mutex
	saved   []types.Language
	saves   int
	failAll bool
}

func (f *fakeLanguageStore) LoadAll() ([]types.Language, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.failAll {
		return nil, errDisk
	}
	out := make([]types.Language, len(f.saved))
	copy(out, f.saved)
	return out, nil
}

func (f *fakeLanguageStore) SaveAll(langs []types.Language) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.failAll {
		return errDisk
	}
	f.saves++
	f.saved = make([]types.Language, len(langs))
	copy(f.saved, langs)
	return nil
}

type fakeProfileStore struct {
	mutex     sync.Mutex
	saved     []types.StudentProfile
	failSave  bool
	failLoad  bool
	saveCalls int
}

func (f *fakeProfileStore) LoadAll() ([]types.StudentProfile, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.failLoad {
		return nil, errDisk
	}
	return f.copyUnsafe(), nil
}

func (f *fakeProfileStore) SaveAll(profiles []types.StudentProfile) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.saveCalls++
	if f.failSave {
		return errDisk
	}
	f.saved = make([]types.StudentProfile, 0, len(profiles))
	for _, p := range profiles {
		f.saved = append(f.saved, p.Clone())
	}
	types.SortProfiles(f.saved)
	return nil
}

func (f *fakeProfileStore) DeleteByName(name string) (bool, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.failSave {
		return false, errDisk
	}
	for i, p := range f.saved {
		if types.SameName(p.FullName, name) {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileStore) UpdateProfile(originalName string, updated types.StudentProfile) (bool, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.failSave {
		return false, errDisk
	}
	idx := -1
	for i, p := range f.saved {
		if types.SameName(p.FullName, originalName) {
			idx = i
		}
	}
	if idx < 0 {
		return false, nil
	}
	for i, p := range f.saved {
		if i != idx && types.SameName(p.FullName, updated.FullName) {
			return false, nil
		}
	}
	f.saved[idx] = updated.Clone()
	types.SortProfiles(f.saved)
	return true, nil
}

func (f *fakeProfileStore) copyUnsafe() []types.StudentProfile {
	out := make([]types.StudentProfile, 0, len(f.saved))
	for _, p := range f.saved {
		out = append(out, p.Clone())
	}
	return out
}

type staticLanguages []string

func (s staticLanguages) Names() []string { return s }
