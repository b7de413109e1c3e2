// Package backend opens the storage implementation selected in config.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/student-profiles/internal/config"
	"github.com/aanand-mishra/student-profiles/internal/storage"
	"github.com/aanand-mishra/student-profiles/internal/storage/flatfile"
	"github.com/aanand-mishra/student-profiles/internal/storage/sqlite"
)

// Backend bundles both stores of one storage implementation.
type Backend struct {
	Languages storage.LanguageStore
	Profiles  storage.ProfileStore

	// Files lists the on-disk files worth watching for external edits.
	// Empty for backends that are not plain files.
	Files []string

	close func() error
}

// Close releases any resources held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open builds the stores for cfg.Storage.Backend.
func Open(cfg *config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		langs := flatfile.NewLanguageStore(cfg.Storage.LanguagesPath())
		profiles := flatfile.NewProfileStore(cfg.Storage.ProfilesPath(), flatfile.ProfileOptions{
			Strict: cfg.Storage.StrictLoad,
			Logger: log,
		})
		return &Backend{
			Languages: langs,
			Profiles:  profiles,
			Files:     []string{langs.Path(), profiles.Path()},
		}, nil

	case config.BackendSQLite:
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Languages: db.Languages(),
			Profiles:  db.Profiles(),
			close:     db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("backend.Open: unknown storage backend %q", cfg.Storage.Backend)
	}
}
