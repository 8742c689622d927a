package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tether.dev/cli/internal/core/manifest"
	"tether.dev/cli/internal/infrastructure/watch"
)

func newWatchCommand() *cobra.Command {
	var file string
	var up bool
	var listen string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild components when their sources change",
		Long: `Watch observes each component's declared watch globs and reruns its build
command on change. With --up the application is also restarted after each
successful rebuild.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := manifest.Load(file)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), app, file, up, listen, debounce)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", manifest.DefaultFile, "Path to the application manifest")
	cmd.Flags().BoolVar(&up, "up", false, "Run the application and restart it on rebuild")
	cmd.Flags().StringVar(&listen, "listen", "", "Override the trigger's listen or broker address")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Delay before acting on a burst of changes")
	return cmd
}

func runWatch(ctx context.Context, app *manifest.Application, manifestPath string, up bool, listen string, debounce time.Duration) error {
	patterns := watchPatterns(app, manifestPath)
	if len(patterns) == 0 {
		return fmt.Errorf("application %q declares no watch globs", app.Name)
	}

	w, err := watch.New(app.Dir, patterns, debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	logger := zerolog.Ctx(ctx)

	// Initial build so the app starts from a consistent state.
	if err := buildComponents(ctx, app, nil); err != nil {
		return err
	}

	var stopApp context.CancelFunc
	appDone := make(chan error, 1)
	startApp := func() {
		if !up {
			return
		}
		appCtx, cancel := context.WithCancel(ctx)
		stopApp = cancel
		go func() {
			appDone <- runApp(appCtx, app, listen)
		}()
	}
	startApp()

	changes := make(chan []string, 1)
	watchDone := make(chan error, 1)
	go func() {
		watchDone <- w.Run(ctx, func(paths []string) {
			changes <- paths
		})
	}()

	fmt.Printf("Watching %s for changes...\n", app.Dir)
	for {
		select {
		case err := <-watchDone:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err

		case err := <-appDone:
			// The application exited on its own; surface that now rather
			// than when the next file change happens to drain the channel.
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil

		case paths := <-changes:
			logger.Info().Strs("paths", paths).Msg("sources changed, rebuilding")
			fmt.Printf("Change detected (%d file(s)), rebuilding...\n", len(paths))

			if up && stopApp != nil {
				stopApp()
				if err := <-appDone; err != nil && !errors.Is(err, context.Canceled) {
					logger.Debug().Err(err).Msg("application stopped")
				}
			}
			if err := buildComponents(ctx, app, nil); err != nil {
				logger.Error().Err(err).Msg("rebuild failed")
				fmt.Printf("Rebuild failed: %v\n", err)
				// Keep watching; the next change may fix the build.
			}
			startApp()
		}
	}
}

// watchPatterns collects every component's watch globs, plus the manifest
// file the application was loaded from so edits to it trigger a rebuild.
func watchPatterns(app *manifest.Application, manifestPath string) []string {
	var patterns []string
	for _, comp := range app.Components {
		if comp.Build == nil {
			continue
		}
		patterns = append(patterns, comp.Build.Watch...)
	}
	if len(patterns) == 0 {
		return nil
	}

	if manifestPath == "" {
		manifestPath = manifest.DefaultFile
	}
	if abs, err := filepath.Abs(manifestPath); err == nil {
		if rel, err := filepath.Rel(app.Dir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return append(patterns, filepath.ToSlash(rel))
		}
	}
	return append(patterns, filepath.Base(manifestPath))
}
