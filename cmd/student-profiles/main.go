// main is the entry point of the student-profiles tool.
//
// Faculty use it to define programming languages, keep one profile per
// student, record dated comments, and pull whitelist/blacklist reports.
// The same data is reachable two ways:
//
//	student-profiles serve                 HTTP API (see serve.go)
//	student-profiles languages|profiles|report ...   one-shot commands
//
// Configuration comes from --config, CONFIG_PATH, or the built-in
// defaults, with environment variables (and a .env file) overriding.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/student-profiles/internal/config"
	"github.com/aanand-mishra/student-profiles/internal/service"
	"github.com/aanand-mishra/student-profiles/internal/storage/backend"
)

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "student-profiles",
	Short:         "Manage student profiles, comments and reports",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal; anything else is worth a warning.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to load .env file: %v\n", err)
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = setupLogger(cfg.Env)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (or set CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// state is what every command works on: the configured backend and the
// two state objects loaded from it.
type state struct {
	backend   *backend.Backend
	languages *service.Languages
	profiles  *service.Profiles
}

// openState opens the configured backend and loads both lists.
func openState() (*state, error) {
	b, err := backend.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise storage: %w", err)
	}

	langs := service.NewLanguages(b.Languages, logger)
	profiles := service.NewProfiles(b.Profiles, langs, service.ProfilesOptions{Logger: logger})

	if err := langs.Refresh(); err != nil {
		b.Close()
		return nil, fmt.Errorf("unable to load programming languages: %w", err)
	}
	if err := profiles.Refresh(); err != nil {
		b.Close()
		return nil, fmt.Errorf("unable to load stored profiles: %w", err)
	}
	return &state{backend: b, languages: langs, profiles: profiles}, nil
}

func (s *state) Close() error {
	return s.backend.Close()
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
// Logs go to stderr so command output on stdout stays clean for pipes.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
