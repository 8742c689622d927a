// Package httptrigger serves an application's components over HTTP. Each
// component's command is executed per request with the request body on stdin
// and its stdout returned as the response.
package httptrigger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"tether.dev/cli/internal/core/manifest"
)

// Type is the trigger type name.
const Type = "http"

// DefaultAddress is the listen address when neither flag nor manifest set one.
const DefaultAddress = "127.0.0.1:3000"

// Trigger is the HTTP protocol backend.
type Trigger struct {
	// Address is the listen address. The --listen flag and the manifest
	// trigger address override it in that order of precedence.
	Address string

	listenFlag *string
}

// Type implements trigger.Backend.
func (t *Trigger) Type() string { return Type }

// Flags implements trigger.Backend.
func (t *Trigger) Flags(fs *pflag.FlagSet) {
	t.listenFlag = fs.String("listen", "", "Address to listen on (host:port)")
}

// Run implements trigger.Backend. It serves until ctx is cancelled, then
// shuts down gracefully.
func (t *Trigger) Run(ctx context.Context, app *manifest.Application) error {
	addr := t.resolveAddress(app)
	logger := zerolog.Ctx(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: t.Router(ctx, app),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("http trigger listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Router builds the request router for the application: one route per
// component plus a health endpoint.
func (t *Trigger) Router(ctx context.Context, app *manifest.Application) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	for _, comp := range app.Components {
		if comp.Route == "" {
			continue
		}
		r.HandleFunc(routePattern(comp.Route), componentHandler(ctx, app, comp))
	}
	return r
}

// routePattern converts the manifest wildcard form ("/api/...") to a chi
// pattern ("/api/*").
func routePattern(route string) string {
	if strings.HasSuffix(route, "/...") {
		return strings.TrimSuffix(route, "...") + "*"
	}
	return route
}

// componentHandler runs the component command once per request.
func componentHandler(ctx context.Context, app *manifest.Application, comp manifest.Component) http.HandlerFunc {
	logger := zerolog.Ctx(ctx).With().Str("component", comp.ID).Logger()

	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		cmd := exec.CommandContext(req.Context(), "/bin/sh", "-c", comp.Command)
		cmd.Dir = app.Dir
		cmd.Env = append(cmd.Environ(), comp.Env...)
		cmd.Env = append(cmd.Env,
			"TETHER_COMPONENT="+comp.ID,
			"TETHER_HTTP_PATH="+req.URL.Path,
			"TETHER_HTTP_METHOD="+req.Method,
		)
		cmd.Stdin = bytes.NewReader(body)

		out, err := cmd.Output()
		if err != nil {
			logger.Error().Err(err).Msg("component execution failed")
			http.Error(w, "component execution failed", http.StatusInternalServerError)
			return
		}
		w.Write(out)
	}
}

func (t *Trigger) resolveAddress(app *manifest.Application) string {
	if t.listenFlag != nil && *t.listenFlag != "" {
		return *t.listenFlag
	}
	if t.Address != "" {
		return t.Address
	}
	if app.Trigger.Address != "" {
		return app.Trigger.Address
	}
	return DefaultAddress
}
