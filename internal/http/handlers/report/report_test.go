package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/student-profiles/internal/search"
	"github.com/aanand-mishra/student-profiles/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixedProfiles []types.StudentProfile

func (f fixedProfiles) Report(kind search.ReportKind) []types.StudentProfile {
	return search.Report(f, kind)
}

type names []string

func (n names) Names() []string { return n }

func newRouter() *http.ServeMux {
	profiles := fixedProfiles{
		{FullName: "Wendy", AcademicStatus: "Senior", Whitelist: true, ProgrammingLanguages: []string{"Go"}, Databases: []string{"MySQL"}, PreferredRole: "Data"},
		{FullName: "Blake", AcademicStatus: "Junior", Blacklist: true, ProgrammingLanguages: []string{"Go"}, Databases: []string{"Oracle"}, PreferredRole: "Other"},
		{FullName: "ada", AcademicStatus: "Freshman", Whitelist: true, ProgrammingLanguages: []string{"Go"}, Databases: []string{"SQLite"}, PreferredRole: "Front-End"},
	}
	router := http.NewServeMux()
	router.HandleFunc("GET /api/reports/{kind}", Get(profiles))
	router.HandleFunc("GET /api/options", GetOptions(names{"Go"}))
	return router
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestReportJSON(t *testing.T) {
	rec := get(newRouter(), "/api/reports/Whitelist")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc Document
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.Equal(t, search.Whitelist, doc.Kind)
	assert.Equal(t, "Whitelisted Students", doc.Title)
	require.Equal(t, 2, doc.Count)
	assert.Equal(t, "ada", doc.Students[0].FullName)
	assert.Equal(t, "Wendy", doc.Students[1].FullName)
}

func TestReportYAML(t *testing.T) {
	rec := get(newRouter(), "/api/reports/blacklist?format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var doc Document
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, search.Blacklist, doc.Kind)
	require.Len(t, doc.Students, 1)
	assert.Equal(t, "Blake", doc.Students[0].FullName)
}

func TestReportErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(newRouter(), "/api/reports/greylist").Code)
	assert.Equal(t, http.StatusBadRequest, get(newRouter(), "/api/reports/whitelist?format=xml").Code)
}

func TestOptions(t *testing.T) {
	rec := get(newRouter(), "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts Options
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opts))
	assert.Equal(t, types.AcademicStatuses, opts.AcademicStatuses)
	assert.Equal(t, []string{"Go"}, opts.Languages)
	assert.Equal(t, []string{"whitelist", "blacklist"}, opts.Reports)
}
