package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/student-profiles/internal/http/handlers/language"
	"github.com/aanand-mishra/student-profiles/internal/http/handlers/report"
	"github.com/aanand-mishra/student-profiles/internal/http/handlers/student"
	"github.com/aanand-mishra/student-profiles/internal/service"
	"github.com/aanand-mishra/student-profiles/internal/watch"
)

// serveCmd runs the HTTP API.
//
// STARTUP SEQUENCE:
//  1. Open the configured storage backend and load both lists
//  2. Start the file watcher (flat-file backend only)
//  3. Register all HTTP routes
//  4. Start the HTTP server in a separate goroutine
//  5. Block until an OS signal (Ctrl+C / kill) arrives
//  6. Gracefully shut down: finish in-flight requests, then exit
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("starting student-profiles",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Storage.Backend),
	)

	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	logger.Info("storage initialised",
		slog.Int("languages", len(st.languages.List())),
		slog.Int("profiles", len(st.profiles.List())),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Another process (or a person with an editor) may change the files
	// while we run. Reload so readers see it; writes still go through the
	// whole-file rewrite and win over external edits.
	if !cfg.Storage.DisableWatch && len(st.backend.Files) > 0 {
		w, err := watch.New(st.backend.Files, reloadOnChange(st), watch.Options{Logger: logger})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			logger.Warn("file watcher disabled", slog.String("error", err.Error()))
		} else {
			defer w.Stop()
		}
	}

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: newRouter(st.languages, st.profiles),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected, not an error.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server encountered an error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// newRouter registers every route.
//
// Route table:
//
//	GET    /api/languages                 list languages
//	POST   /api/languages                 define a language
//	GET    /api/students                  list or search profiles
//	POST   /api/students                  create a profile
//	GET    /api/students/{name}           get one profile
//	PUT    /api/students/{name}           update (or rename) a profile
//	DELETE /api/students/{name}           delete a profile
//	GET    /api/students/{name}/comments  comment history
//	POST   /api/students/{name}/comments  add a dated comment
//	GET    /api/reports/{kind}            whitelist or blacklist report
//	GET    /api/options                   form choice lists
func newRouter(langs *service.Languages, profiles *service.Profiles) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /api/languages", language.GetList(langs))
	router.HandleFunc("POST /api/languages", language.New(langs))

	router.HandleFunc("POST /api/students", student.New(profiles))
	router.HandleFunc("GET /api/students", student.GetList(profiles))
	router.HandleFunc("GET /api/students/{name}", student.GetByName(profiles))
	router.HandleFunc("PUT /api/students/{name}", student.Update(profiles))
	router.HandleFunc("DELETE /api/students/{name}", student.Delete(profiles))
	router.HandleFunc("GET /api/students/{name}/comments", student.GetComments(profiles))
	router.HandleFunc("POST /api/students/{name}/comments", student.AddComment(profiles))

	router.HandleFunc("GET /api/reports/{kind}", report.Get(profiles))
	router.HandleFunc("GET /api/options", report.GetOptions(langs))

	return router
}

// reloadOnChange refreshes both state objects. Profiles reference
// languages, so a change to either file reloads the pair.
func reloadOnChange(st *state) func(path string) {
	return func(path string) {
		for _, refresh := range []func() error{st.languages.Refresh, st.profiles.Refresh} {
			if err := refresh(); err != nil {
				logger.Error("reload after external change failed",
					slog.String("path", path),
					slog.String("error", err.Error()))
			}
		}
	}
}
