// Package search filters profiles and builds the whitelist and blacklist
// reports.
package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aanand-mishra/student-profiles/internal/types"
)

// Criteria narrows a profile list. A blank field matches everything and
// non-blank fields must all match.
type Criteria struct {
	Name     string `json:"name" yaml:"name"`
	Status   string `json:"status" yaml:"status"`
	Language string `json:"language" yaml:"language"`
	Database string `json:"database" yaml:"database"`
	Role     string `json:"role" yaml:"role"`
}

// Empty reports whether no field constrains the result.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Name) == "" &&
		strings.TrimSpace(c.Status) == "" &&
		strings.TrimSpace(c.Language) == "" &&
		strings.TrimSpace(c.Database) == "" &&
		strings.TrimSpace(c.Role) == ""
}

// Match reports whether p satisfies every non-blank field of c.
func (c Criteria) Match(p types.StudentProfile) bool {
	if name := strings.TrimSpace(c.Name); name != "" &&
		!strings.Contains(strings.ToLower(p.FullName), strings.ToLower(name)) {
		return false
	}
	if status := strings.TrimSpace(c.Status); status != "" && !strings.EqualFold(p.AcademicStatus, status) {
		return false
	}
	if role := strings.TrimSpace(c.Role); role != "" && !strings.EqualFold(p.PreferredRole, role) {
		return false
	}
	if lang := strings.TrimSpace(c.Language); lang != "" && !containsFold(p.ProgrammingLanguages, lang) {
		return false
	}
	if db := strings.TrimSpace(c.Database); db != "" && !containsFold(p.Databases, db) {
		return false
	}
	return true
}

func containsFold(list []string, want string) bool {
	return slices.ContainsFunc(list, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), want)
	})
}

// Filter returns copies of the matching profiles sorted by name. The
// input is left untouched.
func Filter(profiles []types.StudentProfile, c Criteria) []types.StudentProfile {
	out := make([]types.StudentProfile, 0, len(profiles))
	for _, p := range profiles {
		if c.Match(p) {
			out = append(out, p.Clone())
		}
	}
	types.SortProfiles(out)
	return out
}

// ReportKind selects one of the two faculty reports.
type ReportKind string

const (
	Whitelist ReportKind = "whitelist"
	Blacklist ReportKind = "blacklist"
)

// Title is the heading shown above a report.
func (k ReportKind) Title() string {
	switch k {
	case Whitelist:
		return "Whitelisted Students"
	case Blacklist:
		return "Blacklisted Students"
	default:
		return string(k)
	}
}

// ParseReportKind accepts "whitelist" or "blacklist" in any case.
func ParseReportKind(s string) (ReportKind, error) {
	switch ReportKind(strings.ToLower(strings.TrimSpace(s))) {
	case Whitelist:
		return Whitelist, nil
	case Blacklist:
		return Blacklist, nil
	default:
		return "", fmt.Errorf("unknown report %q (want %q or %q)", s, Whitelist, Blacklist)
	}
}

// Report returns the flagged profiles for kind, sorted by name.
func Report(profiles []types.StudentProfile, kind ReportKind) []types.StudentProfile {
	out := make([]types.StudentProfile, 0)
	for _, p := range profiles {
		if (kind == Whitelist && p.Whitelist) || (kind == Blacklist && p.Blacklist) {
			out = append(out, p.Clone())
		}
	}
	types.SortProfiles(out)
	return out
}
