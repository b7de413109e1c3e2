// Package sqlite provides a SQLite-backed implementation of the
// storage.LanguageStore and storage.ProfileStore interfaces using Go's
// standard database/sql package.
//
// The semantics match the flat-file backend exactly: results are sorted by
// name case-insensitively and name matching is done in Go (strings.EqualFold)
// rather than with COLLATE NOCASE, which only folds ASCII.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aanand-mishra/student-profiles/internal/config"
	"github.com/aanand-mishra/student-profiles/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite owns the connection pool shared by both stores.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.SQLitePath and creates the
// tables if they do not already exist.
func New(cfg *config.Config) (*SQLite, error) {
	path := cfg.Storage.SQLitePath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	// One writer at a time; SQLite would otherwise answer "database is locked".
	db.SetMaxOpenConns(1)

	// CREATE TABLE IF NOT EXISTS is idempotent, so it runs on every startup.
	//
	// The id columns only preserve insertion order; the name is the
	// identity key and uniqueness is enforced by the service layer.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS languages (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT    NOT NULL
		);
		CREATE TABLE IF NOT EXISTS profiles (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name       TEXT    NOT NULL,
			academic_status TEXT    NOT NULL,
			employed        INTEGER NOT NULL,
			job_details     TEXT    NOT NULL,
			languages       TEXT    NOT NULL,
			databases       TEXT    NOT NULL,
			preferred_role  TEXT    NOT NULL,
			comments        TEXT    NOT NULL,
			whitelist       INTEGER NOT NULL,
			blacklist       INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// Languages returns the storage.LanguageStore view of the database.
func (s *SQLite) Languages() *Languages { return &Languages{db: s.Db} }

// Profiles returns the storage.ProfileStore view of the database.
func (s *SQLite) Profiles() *Profiles { return &Profiles{db: s.Db} }

// ─────────────────────────────────────────────────────────────────────────────
// Languages
// ─────────────────────────────────────────────────────────────────────────────

// Languages implements storage.LanguageStore.
type Languages struct {
	db *sql.DB
}

// LoadAll returns every stored language sorted case-insensitively.
func (l *Languages) LoadAll() ([]types.Language, error) {
	rows, err := l.db.Query("SELECT name FROM languages ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("Languages.LoadAll: query: %w", err)
	}
	defer rows.Close()

	languages := make([]types.Language, 0)
	for rows.Next() {
		var lang types.Language
		if err := rows.Scan(&lang.Name); err != nil {
			return nil, fmt.Errorf("Languages.LoadAll: scan row: %w", err)
		}
		languages = append(languages, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Languages.LoadAll: rows iteration: %w", err)
	}

	types.SortLanguages(languages)
	return languages, nil
}

// SaveAll replaces the table contents in a single transaction.
func (l *Languages) SaveAll(languages []types.Language) error {
	sorted := make([]types.Language, 0, len(languages))
	for _, lang := range languages {
		if name := strings.TrimSpace(lang.Name); name != "" {
			sorted = append(sorted, types.Language{Name: name})
		}
	}
	types.SortLanguages(sorted)

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("Languages.SaveAll: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM languages"); err != nil {
		return fmt.Errorf("Languages.SaveAll: clear: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO languages (name) VALUES (?)")
	if err != nil {
		return fmt.Errorf("Languages.SaveAll: prepare: %w", err)
	}
	defer stmt.Close()

	for _, lang := range sorted {
		if _, err := stmt.Exec(lang.Name); err != nil {
			return fmt.Errorf("Languages.SaveAll: exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Languages.SaveAll: commit: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Profiles
// ─────────────────────────────────────────────────────────────────────────────

// Profiles implements storage.ProfileStore.
type Profiles struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type storedProfile struct {
	id      int64
	profile types.StudentProfile
}

const selectProfiles = `
	SELECT id, full_name, academic_status, employed, job_details,
	       languages, databases, preferred_role, comments, whitelist, blacklist
	FROM profiles ORDER BY id`

// LoadAll returns every stored profile sorted by name.
func (p *Profiles) LoadAll() ([]types.StudentProfile, error) {
	stored, err := loadProfiles(p.db)
	if err != nil {
		return nil, fmt.Errorf("Profiles.LoadAll: %w", err)
	}

	profiles := make([]types.StudentProfile, len(stored))
	for i, sp := range stored {
		profiles[i] = sp.profile
	}
	return profiles, nil
}

// SaveAll replaces the table contents in a single transaction.
func (p *Profiles) SaveAll(profiles []types.StudentProfile) error {
	sorted := make([]types.StudentProfile, len(profiles))
	copy(sorted, profiles)
	types.SortProfiles(sorted)

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("Profiles.SaveAll: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM profiles"); err != nil {
		return fmt.Errorf("Profiles.SaveAll: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO profiles (full_name, academic_status, employed, job_details,
			languages, databases, preferred_role, comments, whitelist, blacklist)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("Profiles.SaveAll: prepare: %w", err)
	}
	defer stmt.Close()

	for _, profile := range sorted {
		args, err := profileArgs(profile)
		if err != nil {
			return fmt.Errorf("Profiles.SaveAll: %w", err)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("Profiles.SaveAll: exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Profiles.SaveAll: commit: %w", err)
	}
	return nil
}

// DeleteByName removes every profile whose name matches case-insensitively.
func (p *Profiles) DeleteByName(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	tx, err := p.db.Begin()
	if err != nil {
		return false, fmt.Errorf("Profiles.DeleteByName: begin: %w", err)
	}
	defer tx.Rollback()

	stored, err := loadProfiles(tx)
	if err != nil {
		return false, fmt.Errorf("Profiles.DeleteByName: %w", err)
	}

	removed := false
	for _, sp := range stored {
		if !types.SameName(sp.profile.FullName, name) {
			continue
		}
		if _, err := tx.Exec("DELETE FROM profiles WHERE id = ?", sp.id); err != nil {
			return false, fmt.Errorf("Profiles.DeleteByName: exec: %w", err)
		}
		removed = true
	}
	if !removed {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("Profiles.DeleteByName: commit: %w", err)
	}
	return true, nil
}

// UpdateProfile replaces the profile stored under originalName.
func (p *Profiles) UpdateProfile(originalName string, updated types.StudentProfile) (bool, error) {
	tx, err := p.db.Begin()
	if err != nil {
		return false, fmt.Errorf("Profiles.UpdateProfile: begin: %w", err)
	}
	defer tx.Rollback()

	stored, err := loadProfiles(tx)
	if err != nil {
		return false, fmt.Errorf("Profiles.UpdateProfile: %w", err)
	}

	target := -1
	for i, sp := range stored {
		if types.SameName(sp.profile.FullName, originalName) {
			target = i
			break
		}
	}
	if target < 0 {
		return false, nil
	}
	for i, sp := range stored {
		if i != target && types.SameName(sp.profile.FullName, updated.FullName) {
			return false, nil
		}
	}

	args, err := profileArgs(updated)
	if err != nil {
		return false, fmt.Errorf("Profiles.UpdateProfile: %w", err)
	}
	args = append(args, stored[target].id)

	_, err = tx.Exec(`
		UPDATE profiles SET full_name = ?, academic_status = ?, employed = ?, job_details = ?,
			languages = ?, databases = ?, preferred_role = ?, comments = ?, whitelist = ?, blacklist = ?
		WHERE id = ?`, args...)
	if err != nil {
		return false, fmt.Errorf("Profiles.UpdateProfile: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("Profiles.UpdateProfile: commit: %w", err)
	}
	return true, nil
}

// loadProfiles reads all rows and returns them sorted by name. Sorting is
// stable over insertion order so the first match is deterministic.
func loadProfiles(q querier) ([]storedProfile, error) {
	rows, err := q.Query(selectProfiles)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	stored := make([]storedProfile, 0)
	for rows.Next() {
		var (
			sp                          storedProfile
			languages, databases, notes string
		)
		pr := &sp.profile
		if err := rows.Scan(
			&sp.id,
			&pr.FullName,
			&pr.AcademicStatus,
			&pr.Employed,
			&pr.JobDetails,
			&languages,
			&databases,
			&pr.PreferredRole,
			&notes,
			&pr.Whitelist,
			&pr.Blacklist,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := unmarshalList(languages, &pr.ProgrammingLanguages); err != nil {
			return nil, err
		}
		if err := unmarshalList(databases, &pr.Databases); err != nil {
			return nil, err
		}
		if err := unmarshalList(notes, &pr.Comments); err != nil {
			return nil, err
		}
		stored = append(stored, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	sortStored(stored)
	return stored, nil
}

func sortStored(stored []storedProfile) {
	slices.SortStableFunc(stored, func(a, b storedProfile) int {
		return types.CompareNames(a.profile.FullName, b.profile.FullName)
	})
}

func profileArgs(p types.StudentProfile) ([]any, error) {
	languages, err := marshalList(p.ProgrammingLanguages)
	if err != nil {
		return nil, err
	}
	databases, err := marshalList(p.Databases)
	if err != nil {
		return nil, err
	}
	comments, err := marshalList(p.Comments)
	if err != nil {
		return nil, err
	}
	// Order matches the column order of the INSERT/UPDATE statements.
	return []any{
		p.FullName, p.AcademicStatus, p.Employed, p.JobDetails,
		languages, databases, p.PreferredRole, comments, p.Whitelist, p.Blacklist,
	}, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func unmarshalList(raw string, dst *[]string) error {
	values := []string{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
	}
	*dst = values
	return nil
}
