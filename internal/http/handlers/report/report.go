// Package report serves the whitelist and blacklist reports and the
// option sets the profile form offers.
package report

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-profiles/internal/search"
	"github.com/aanand-mishra/student-profiles/internal/types"
	"github.com/aanand-mishra/student-profiles/internal/utils/response"
)

// Reporter produces a report from the current profiles.
type Reporter interface {
	Report(kind search.ReportKind) []types.StudentProfile
}

// LanguageNames lists the defined programming languages.
type LanguageNames interface {
	Names() []string
}

// Document is a report as served to clients.
type Document struct {
	Kind     search.ReportKind      `json:"kind" yaml:"kind"`
	Title    string                 `json:"title" yaml:"title"`
	Count    int                    `json:"count" yaml:"count"`
	Students []types.StudentProfile `json:"students" yaml:"students"`
}

// NewDocument wraps the profiles of one report.
func NewDocument(kind search.ReportKind, students []types.StudentProfile) Document {
	return Document{
		Kind:     kind,
		Title:    kind.Title(),
		Count:    len(students),
		Students: students,
	}
}

// Get handles GET /api/reports/{kind}
//
// {kind} is "whitelist" or "blacklist". Add ?format=yaml to download the
// report as a YAML document instead of JSON.
func Get(reporter Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := search.ParseReportKind(r.PathValue("kind"))
		if err != nil {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}

		doc := NewDocument(kind, reporter.Report(kind))
		slog.Info("building report", slog.String("kind", string(kind)), slog.Int("count", doc.Count))

		switch strings.ToLower(r.URL.Query().Get("format")) {
		case "", "json":
			response.WriteJSON(w, http.StatusOK, doc)
		case "yaml", "yml":
			response.WriteYAML(w, http.StatusOK, doc)
		default:
			response.WriteJSON(w, http.StatusBadRequest,
				response.Message("format must be json or yaml"))
		}
	}
}

// Options is the choice list payload for profile forms.
type Options struct {
	AcademicStatuses []string `json:"academicStatuses"`
	Databases        []string `json:"databases"`
	PreferredRoles   []string `json:"preferredRoles"`
	Languages        []string `json:"languages"`
	Reports          []string `json:"reports"`
}

// GetOptions handles GET /api/options
func GetOptions(langs LanguageNames) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, Options{
			AcademicStatuses: types.AcademicStatuses,
			Databases:        types.DatabaseOptions,
			PreferredRoles:   types.PreferredRoles,
			Languages:        langs.Names(),
			Reports:          []string{string(search.Whitelist), string(search.Blacklist)},
		})
	}
}
