// Package config handles loading and parsing application configuration.
// It supports two sources for the YAML file (in priority order):
//  1. An explicit path, normally the --config flag
//  2. An environment variable: CONFIG_PATH=/path/to/config.yaml
//
// When neither is given the defaults below are used, so the tool works
// out of the box with its data folder under the working directory. Every
// field can still be overridden by its environment variable.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage Storage `yaml:"storage"`

	HTTPServer `yaml:"http_server"`
}

// Storage selects the persistence backend and its file locations.
type Storage struct {
	// Backend is "file" (line-encoded flat files) or "sqlite".
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`

	// DataDir holds the flat files; relative paths resolve against the
	// working directory.
	DataDir       string `yaml:"data_dir" env:"DATA_DIR" env-default:"data"`
	LanguagesFile string `yaml:"languages_file" env:"LANGUAGES_FILE" env-default:"programming-languages.csv"`
	ProfilesFile  string `yaml:"profiles_file" env:"PROFILES_FILE" env-default:"student-profiles.csv"`

	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"data/student-profiles.db"`

	// StrictLoad turns malformed profile records into load errors instead
	// of skipping them with a warning.
	StrictLoad bool `yaml:"strict_load" env:"STRICT_LOAD" env-default:"false"`

	// DisableWatch stops in-memory state from reloading when the data files
	// change on disk. The watcher runs unless this is set.
	DisableWatch bool `yaml:"disable_watch" env:"STORAGE_DISABLE_WATCH" env-default:"false"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// LanguagesPath is the full path of the language file.
func (s Storage) LanguagesPath() string {
	return resolve(s.DataDir, s.LanguagesFile)
}

// ProfilesPath is the full path of the profile file.
func (s Storage) ProfilesPath() string {
	return resolve(s.DataDir, s.ProfilesFile)
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// Load reads the config from path, falling back to CONFIG_PATH and then
// to defaults plus environment variables.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
		return &cfg, cfg.validate()
	}

	// Verify the file exists before trying to read it so the message is
	// clear rather than a cryptic "open: no such file" later.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file, then applies env overrides
	// and env-default values.
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, cfg.validate()
}

// MustLoad is Load that exits the process on failure.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendSQLite)
	}
}
