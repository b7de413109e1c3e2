package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/student-profiles/internal/http/handlers/report"
	"github.com/aanand-mishra/student-profiles/internal/storage/flatfile"
	"github.com/aanand-mishra/student-profiles/internal/types"
)

// run executes the CLI against a data directory and returns stdout.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("ENV", "prod")
	searchFlags.Name, searchFlags.Status, searchFlags.Language, searchFlags.Database, searchFlags.Role = "", "", "", "", ""
	reportFormat = "text"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func seedProfiles(t *testing.T, dataDir string, profiles ...types.StudentProfile) {
	t.Helper()
	store := flatfile.NewProfileStore(filepath.Join(dataDir, "student-profiles.csv"), flatfile.ProfileOptions{})
	require.NoError(t, store.SaveAll(profiles))
}

func seeded(name string, whitelist bool) types.StudentProfile {
	return types.StudentProfile{
		FullName:             name,
		AcademicStatus:       "Senior",
		ProgrammingLanguages: []string{"Go"},
		Databases:            []string{"Postgres"},
		PreferredRole:        "Back-End",
		Whitelist:            whitelist,
	}
}

func TestLanguagesCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "languages", "list")
	require.NoError(t, err)
	assert.Equal(t, "No languages defined.\n", out)

	out, err = run(t, dir, "languages", "add", "  Rust ")
	require.NoError(t, err)
	assert.Equal(t, "Saved programming language: Rust\n", out)

	_, err = run(t, dir, "languages", "add", "go")
	require.NoError(t, err)

	_, err = run(t, dir, "languages", "add", "RUST")
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, dir, "languages", "list")
	require.NoError(t, err)
	assert.Equal(t, "go\nRust\n", out)
}

func TestProfilesCommands(t *testing.T) {
	dir := t.TempDir()
	seedProfiles(t, dir, seeded("Wendy Ito", true), seeded("Bo Chen", false))

	out, err := run(t, dir, "profiles", "list", "--name", "wen")
	require.NoError(t, err)
	assert.Contains(t, out, "Wendy Ito")
	assert.NotContains(t, out, "Bo Chen")
	assert.Contains(t, out, "Showing 1 profile(s).")

	out, err = run(t, dir, "profiles", "list", "--database", "Oracle")
	require.NoError(t, err)
	assert.Equal(t, "No profiles match the current filters.\n", out)

	out, err = run(t, dir, "profiles", "comment", "bo chen", "needs", "mentoring")
	require.NoError(t, err)
	assert.Equal(t, "Added comment for Bo Chen.\n", out)

	out, err = run(t, dir, "profiles", "show", "Bo Chen")
	require.NoError(t, err)
	assert.Contains(t, out, "Job Details:")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, " - needs mentoring")

	out, err = run(t, dir, "profiles", "delete", "BO CHEN")
	require.NoError(t, err)
	assert.Equal(t, "Deleted profile for BO CHEN.\n", out)

	_, err = run(t, dir, "profiles", "delete", "Bo Chen")
	assert.ErrorContains(t, err, "not found")
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	seedProfiles(t, dir, seeded("Wendy Ito", true), seeded("Bo Chen", false))

	out, err := run(t, dir, "report", "whitelist")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Whitelisted Students\n"))
	assert.Contains(t, out, "Wendy Ito")

	out, err = run(t, dir, "report", "blacklist")
	require.NoError(t, err)
	assert.Contains(t, out, "No students match the selected report.")

	out, err = run(t, dir, "report", "whitelist", "--format", "yaml")
	require.NoError(t, err)
	var doc report.Document
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Count)
	assert.Equal(t, "Wendy Ito", doc.Students[0].FullName)

	_, err = run(t, dir, "report", "greylist")
	assert.ErrorContains(t, err, "unknown report")
}

func TestRouterServesOptions(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "languages", "add", "Go")
	require.NoError(t, err)

	st, err := openState()
	require.NoError(t, err)
	defer st.Close()

	rec := httptest.NewRecorder()
	newRouter(st.languages, st.profiles).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/options", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"languages":["Go"]`)
}
