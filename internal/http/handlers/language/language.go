// Package language contains the HTTP handlers for programming languages.
package language

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-profiles/internal/http/handlers"
	"github.com/aanand-mishra/student-profiles/internal/types"
	"github.com/aanand-mishra/student-profiles/internal/utils/response"
)

// Languages is the slice of service.Languages these handlers need.
type Languages interface {
	List() []types.Language
	Add(name string) (types.Language, error)
}

// New handles POST /api/languages
//
// Request body (JSON):
//
//	{ "name": "Go" }
//
// 201 with the stored language, 400 when the name is blank, 409 when a
// language with the same name in any case exists.
func New(langs Languages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("defining a programming language")

		var lang types.Language
		if !handlers.DecodeJSON(w, r, &lang) {
			return
		}

		saved, err := langs.Add(lang.Name)
		if err != nil {
			handlers.WriteError(w, err, "Unable to store language; please try again.")
			return
		}

		slog.Info("programming language saved", slog.String("name", saved.Name))
		response.WriteJSON(w, http.StatusCreated, saved)
	}
}

// GetList handles GET /api/languages
func GetList(langs Languages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all programming languages")
		response.WriteJSON(w, http.StatusOK, langs.List())
	}
}
