// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and services can all import types without depending
// on each other.
package types

import (
	"slices"
	"strings"
	"time"
)

// Language is a programming language defined by faculty.
// The name is the only attribute and is unique case-insensitively.
type Language struct {
	Name string `json:"name" yaml:"name" validate:"required"`
}

// StudentProfile represents a student record in our system.
// FullName is the identity key (case-insensitive).
//
// Struct tags:
//
//  1. json/yaml: shape of the record in API responses and exports.
//  2. validate: rules checked by go-playground/validator before a
//     profile is ever handed to storage.
type StudentProfile struct {
	FullName             string   `json:"fullName" yaml:"fullName" validate:"required"`
	AcademicStatus       string   `json:"academicStatus" yaml:"academicStatus" validate:"required,oneof=Freshman Sophomore Junior Senior Graduate"`
	Employed             bool     `json:"employed" yaml:"employed"`
	JobDetails           string   `json:"jobDetails" yaml:"jobDetails,omitempty" validate:"required_if=Employed true"`
	ProgrammingLanguages []string `json:"programmingLanguages" yaml:"programmingLanguages" validate:"required,min=1,dive,required"`
	Databases            []string `json:"databases" yaml:"databases" validate:"required,min=1,dive,oneof=MySQL Postgres MongoDB SQLite Oracle"`
	PreferredRole        string   `json:"preferredRole" yaml:"preferredRole" validate:"required,oneof=Front-End Back-End Full-Stack Data Other"`
	Comments             []string `json:"comments" yaml:"comments,omitempty" validate:"dive,required"`
	Whitelist            bool     `json:"whitelist" yaml:"whitelist"`
	Blacklist            bool     `json:"blacklist" yaml:"blacklist" validate:"excluded_if=Whitelist true"`
}

// Option sets offered by the profile form.
var (
	AcademicStatuses = []string{"Freshman", "Sophomore", "Junior", "Senior", "Graduate"}
	DatabaseOptions  = []string{"MySQL", "Postgres", "MongoDB", "SQLite", "Oracle"}
	PreferredRoles   = []string{"Front-End", "Back-End", "Full-Stack", "Data", "Other"}
)

// CommentDateLayout is the date prefix written in front of every comment.
const CommentDateLayout = "2006-01-02"

// CommentSeparator sits between a comment's date and its text.
const CommentSeparator = " - "

// SplitComment splits a stored comment on its first separator. ok is false,
// and text is the whole comment, unless the prefix parses as a date.
func SplitComment(c string) (date, text string, ok bool) {
	prefix, rest, found := strings.Cut(c, CommentSeparator)
	if !found {
		return "", c, false
	}
	if _, err := time.Parse(CommentDateLayout, prefix); err != nil {
		return "", c, false
	}
	return prefix, rest, true
}

// Clone returns a deep copy so callers never share list backing arrays.
func (p StudentProfile) Clone() StudentProfile {
	p.ProgrammingLanguages = slices.Clone(p.ProgrammingLanguages)
	p.Databases = slices.Clone(p.Databases)
	p.Comments = slices.Clone(p.Comments)
	return p
}

// JobStatusLabel returns "Employed" or "Not Employed".
func (p StudentProfile) JobStatusLabel() string {
	if p.Employed {
		return "Employed"
	}
	return "Not Employed"
}

// JobDetailsDisplay returns the job details, or "N/A" for unemployed
// students with nothing recorded.
func (p StudentProfile) JobDetailsDisplay() string {
	if strings.TrimSpace(p.JobDetails) == "" {
		if p.Employed {
			return ""
		}
		return "N/A"
	}
	return p.JobDetails
}

// FlagLabel names the report a profile belongs to, if any.
func (p StudentProfile) FlagLabel() string {
	switch {
	case p.Whitelist:
		return "Whitelist"
	case p.Blacklist:
		return "Blacklist"
	default:
		return ""
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// WhitelistLabel returns "Yes" or "No".
func (p StudentProfile) WhitelistLabel() string { return yesNo(p.Whitelist) }

// BlacklistLabel returns "Yes" or "No".
func (p StudentProfile) BlacklistLabel() string { return yesNo(p.Blacklist) }

// FormatLanguages joins the programming languages with ", ".
func (p StudentProfile) FormatLanguages() string { return strings.Join(p.ProgrammingLanguages, ", ") }

// FormatDatabases joins the databases with ", ".
func (p StudentProfile) FormatDatabases() string { return strings.Join(p.Databases, ", ") }

// FormatComments renders the comment history one per line, with a blank
// line between comments written on different days.
func (p StudentProfile) FormatComments() string {
	var out strings.Builder
	prevDate := ""
	for _, c := range p.Comments {
		if strings.TrimSpace(c) == "" {
			continue
		}
		date, _, _ := SplitComment(c)
		if prevDate != "" && date != "" && date != prevDate {
			out.WriteString("\n")
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(c)
		if date != "" {
			prevDate = date
		}
	}
	return out.String()
}

// CompareNames orders names case-insensitively. Ties keep their input
// order when used with a stable sort.
func CompareNames(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// SortLanguages sorts in place by name, case-insensitively.
func SortLanguages(list []Language) {
	slices.SortStableFunc(list, func(a, b Language) int { return CompareNames(a.Name, b.Name) })
}

// SortProfiles sorts in place by full name, case-insensitively.
func SortProfiles(list []StudentProfile) {
	slices.SortStableFunc(list, func(a, b StudentProfile) int { return CompareNames(a.FullName, b.FullName) })
}

// SameName reports whether two names identify the same record.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
