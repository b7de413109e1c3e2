package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-profiles/internal/config"
	"github.com/aanand-mishra/student-profiles/internal/storage"
	"github.com/aanand-mishra/student-profiles/internal/storage/sqlite"
	"github.com/aanand-mishra/student-profiles/internal/types"
)

var (
	_ storage.LanguageStore = (*sqlite.Languages)(nil)
	_ storage.ProfileStore  = (*sqlite.Profiles)(nil)
)

func openDB(t *testing.T) *sqlite.SQLite {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "nested", "profiles.db")

	db, err := sqlite.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func profile(name string) types.StudentProfile {
	return types.StudentProfile{
		FullName:             name,
		AcademicStatus:       "Senior",
		Employed:             true,
		JobDetails:           "Intern",
		ProgrammingLanguages: []string{"Go", "Python"},
		Databases:            []string{"SQLite"},
		PreferredRole:        "Full-Stack",
		Comments:             []string{"2025-01-01 - Great work"},
		Blacklist:            true,
	}
}

func TestLanguagesRoundTrip(t *testing.T) {
	store := openDB(t).Languages()

	got, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.SaveAll([]types.Language{{Name: "rust"}, {Name: " Go "}, {Name: ""}, {Name: "ada"}}))
	got, err = store.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []types.Language{{Name: "ada"}, {Name: "Go"}, {Name: "rust"}}, got)
}

func TestProfilesRoundTripAndSort(t *testing.T) {
	store := openDB(t).Profiles()

	want := []types.StudentProfile{profile("ana"), profile("Bob"), profile("Émile")}
	require.NoError(t, store.SaveAll([]types.StudentProfile{want[2], want[1], want[0]}))

	got, err := store.LoadAll()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}
}

func TestProfilesDeleteByName(t *testing.T) {
	store := openDB(t).Profiles()
	require.NoError(t, store.SaveAll([]types.StudentProfile{profile("Ana"), profile("Bob")}))

	removed, err := store.DeleteByName("ANA")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteByName("Nobody")
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].FullName)
}

func TestProfilesUpdateProfile(t *testing.T) {
	store := openDB(t).Profiles()
	require.NoError(t, store.SaveAll([]types.StudentProfile{profile("Bob"), profile("Carol")}))

	ok, err := store.UpdateProfile("Missing", profile("Missing"))
	require.NoError(t, err)
	assert.False(t, ok, "update of a vanished record must not insert")

	ok, err = store.UpdateProfile("Bob", profile("carol"))
	require.NoError(t, err)
	assert.False(t, ok, "rename onto another record must be rejected")

	updated := profile("Robert")
	updated.Comments = append(updated.Comments, "2025-02-02 - Follow-up")
	ok, err = store.UpdateProfile("bob", updated)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Carol", got[0].FullName)
	assert.Equal(t, updated.Comments, got[1].Comments)
}
