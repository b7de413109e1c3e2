package student_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aanand-mishra/student-profiles/internal/comments"
	"github.com/aanand-mishra/student-profiles/internal/http/handlers/student"
	"github.com/aanand-mishra/student-profiles/internal/service"
	"github.com/aanand-mishra/student-profiles/internal/storage/flatfile"
	"github.com/aanand-mishra/student-profiles/internal/types"
	"github.com/aanand-mishra/student-profiles/internal/utils/response"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type languages []string

func (l languages) Names() []string { return l }

func newRouter(t *testing.T) (*http.ServeMux, *flatfile.ProfileStore) {
	t.Helper()
	store := flatfile.NewProfileStore(filepath.Join(t.TempDir(), "student-profiles.csv"), flatfile.ProfileOptions{})
	profiles := service.NewProfiles(store, languages{"Go", "Python"}, service.ProfilesOptions{
		Now: func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, profiles.Refresh())

	router := http.NewServeMux()
	router.HandleFunc("POST /api/students", student.New(profiles))
	router.HandleFunc("GET /api/students", student.GetList(profiles))
	router.HandleFunc("GET /api/students/{name}", student.GetByName(profiles))
	router.HandleFunc("PUT /api/students/{name}", student.Update(profiles))
	router.HandleFunc("DELETE /api/students/{name}", student.Delete(profiles))
	router.HandleFunc("POST /api/students/{name}/comments", student.AddComment(profiles))
	router.HandleFunc("GET /api/students/{name}/comments", student.GetComments(profiles))
	return router, store
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const anaJSON = `{
	"fullName": "Ana Souza",
	"academicStatus": "Senior",
	"employed": true,
	"jobDetails": "Intern at ACME",
	"programmingLanguages": ["go", "Python"],
	"databases": ["Postgres"],
	"preferredRole": "Back-End",
	"whitelist": true
}`

func TestCreateAndGet(t *testing.T) {
	router, store := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/students", anaJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.StudentProfile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, []string{"Go", "Python"}, created.ProgrammingLanguages)

	stored, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, stored, 1)

	rec = do(t, router, http.MethodGet, "/api/students/ana%20souza", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got types.StudentProfile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Ana Souza", got.FullName)
}

func TestCreateErrors(t *testing.T) {
	router, _ := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/students", anaJSON).Code)

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"empty body", "", http.StatusBadRequest, "request body is empty"},
		{"malformed", "{", http.StatusBadRequest, ""},
		{"validation", `{"fullName":"Bo","academicStatus":"Senior","programmingLanguages":["Go"],"databases":[],"preferredRole":"Data"}`, http.StatusBadRequest, "field databases must contain at least 1 item"},
		{"undefined language", `{"fullName":"Bo","academicStatus":"Senior","programmingLanguages":["Cobol"],"databases":["MySQL"],"preferredRole":"Data"}`, http.StatusBadRequest, `Programming language "Cobol" is not defined.`},
		{"duplicate", strings.Replace(anaJSON, "Ana Souza", "ANA SOUZA", 1), http.StatusConflict, "already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/students", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, response.StatusError, resp.Status)
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestListAndSearch(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/students", anaJSON).Code)

	rec = do(t, router, http.MethodGet, "/api/students?language=GO&role=back-end", "")
	var found []types.StudentProfile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	assert.Len(t, found, 1)

	rec = do(t, router, http.MethodGet, "/api/students?database=Oracle", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateAndDelete(t *testing.T) {
	router, store := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/students", anaJSON).Code)

	renamed := strings.Replace(anaJSON, "Ana Souza", "Ana S. Lima", 1)
	rec := do(t, router, http.MethodPut, "/api/students/Ana%20Souza", renamed)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/api/students/Ana%20Souza", renamed)
	assert.Equal(t, http.StatusConflict, rec.Code, "the original name is gone")

	rec = do(t, router, http.MethodDelete, "/api/students/ana%20s.%20lima", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/students/ana%20s.%20lima", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	stored, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestComments(t *testing.T) {
	router, store := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/students", anaJSON).Code)

	rec := do(t, router, http.MethodPost, "/api/students/Ana%20Souza/comments", `{"text":"Great\nprogress"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored, err := store.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-01 - Great progress"}, stored[0].Comments)

	rec = do(t, router, http.MethodPost, "/api/students/Ana%20Souza/comments", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/students/Ana%20Souza/comments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []comments.Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-06-01", entries[0].Date)
	assert.Equal(t, "Great progress", entries[0].Text)

	rec = do(t, router, http.MethodGet, "/api/students/Nobody/comments", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
