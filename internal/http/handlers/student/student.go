// Package student contains all HTTP handlers related to student profiles.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// Each exported function accepts its dependencies once at startup and
// returns the http.HandlerFunc the router calls on every request:
//
//	router.HandleFunc("POST /api/students", student.New(profiles))
//
// Profiles are addressed by full name, case-insensitively, so the path
// segment {name} is the URL-escaped name ("/api/students/Ana%20Souza").
package student

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-profiles/internal/comments"
	"github.com/aanand-mishra/student-profiles/internal/http/handlers"
	"github.com/aanand-mishra/student-profiles/internal/search"
	"github.com/aanand-mishra/student-profiles/internal/types"
	"github.com/aanand-mishra/student-profiles/internal/utils/response"
)

// Profiles is the slice of service.Profiles these handlers need.
type Profiles interface {
	List() []types.StudentProfile
	Search(c search.Criteria) []types.StudentProfile
	Get(name string) (types.StudentProfile, error)
	Create(p types.StudentProfile) (types.StudentProfile, error)
	Update(originalName string, p types.StudentProfile) (types.StudentProfile, error)
	Delete(name string) error
	AddComment(name, text string) (types.StudentProfile, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Success response (201 Created): the stored profile, normalised.
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON, or failed validation
//	409 Conflict     a profile with this name already exists
//	500 Internal     storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student profile")

		var profile types.StudentProfile
		if !handlers.DecodeJSON(w, r, &profile) {
			return
		}

		created, err := profiles.Create(profile)
		if err != nil {
			handlers.WriteError(w, err, "Unable to save profile. Please try again.")
			return
		}

		slog.Info("student profile created", slog.String("name", created.FullName))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
//
// Optional query parameters narrow the list; all given ones must match:
//
//	name      substring of the full name
//	status    academic status
//	language  one of the student's programming languages
//	database  one of the student's databases
//	role      preferred role
//
// Returns an empty array [] (not null) when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		criteria := search.Criteria{
			Name:     q.Get("name"),
			Status:   q.Get("status"),
			Language: q.Get("language"),
			Database: q.Get("database"),
			Role:     q.Get("role"),
		}

		if criteria.Empty() {
			slog.Info("getting all student profiles")
			response.WriteJSON(w, http.StatusOK, profiles.List())
			return
		}

		slog.Info("searching student profiles",
			slog.String("name", criteria.Name),
			slog.String("status", criteria.Status),
			slog.String("language", criteria.Language),
			slog.String("database", criteria.Database),
			slog.String("role", criteria.Role))
		response.WriteJSON(w, http.StatusOK, profiles.Search(criteria))
	}
}

// GetByName handles GET /api/students/{name}
func GetByName(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		slog.Info("getting a student profile", slog.String("name", name))

		profile, err := profiles.Get(name)
		if err != nil {
			handlers.WriteError(w, err, "Unable to load stored profiles. Please try again.")
			return
		}
		response.WriteJSON(w, http.StatusOK, profile)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{name}
// Replaces ALL fields of the profile stored under {name}, including its
// comment list. The body may carry a different fullName to rename it.
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON, or failed validation
//	409 Conflict     the original no longer exists or the new name is taken
//	500 Internal     storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		slog.Info("updating a student profile", slog.String("name", name))

		var profile types.StudentProfile
		if !handlers.DecodeJSON(w, r, &profile) {
			return
		}

		updated, err := profiles.Update(name, profile)
		if err != nil {
			handlers.WriteError(w, err, "Unable to save changes. Please try again.")
			return
		}

		slog.Info("student profile updated",
			slog.String("original", name),
			slog.String("name", updated.FullName))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{name}
func Delete(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		slog.Info("deleting a student profile", slog.String("name", name))

		if err := profiles.Delete(name); err != nil {
			handlers.WriteError(w, err, "Unable to delete the profile. Please try again.")
			return
		}

		slog.Info("student profile deleted", slog.String("name", name))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

// ─────────────────────────────────────────────────────────────────────────────
// AddComment handles POST /api/students/{name}/comments
//
// Request body (JSON):
//
//	{ "text": "Strong database fundamentals" }
//
// The comment is stored as "yyyy-MM-dd - text" using today's date.
// Success response (201 Created): the updated profile.
// ─────────────────────────────────────────────────────────────────────────────
func AddComment(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		slog.Info("adding a comment", slog.String("name", name))

		var req commentRequest
		if !handlers.DecodeJSON(w, r, &req) {
			return
		}

		updated, err := profiles.AddComment(name, req.Text)
		if err != nil {
			handlers.WriteError(w, err, "Unable to save the comment. Please try again.")
			return
		}

		slog.Info("comment added", slog.String("name", updated.FullName))
		response.WriteJSON(w, http.StatusCreated, updated)
	}
}

// GetComments handles GET /api/students/{name}/comments and returns the
// comment history split into date, text and preview.
func GetComments(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")

		profile, err := profiles.Get(name)
		if err != nil {
			handlers.WriteError(w, err, "Unable to open comment details.")
			return
		}
		response.WriteJSON(w, http.StatusOK, comments.Entries(profile.Comments))
	}
}
