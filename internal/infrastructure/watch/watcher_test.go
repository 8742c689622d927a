package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidPattern(t *testing.T) {
	_, err := New(t.TempDir(), []string{"src/[oops"}, 0)
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "api"), 0755))

	w, err := New(root, []string{"src/**/*.go", "tether.yaml"}, 0)
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.Matches(filepath.Join(root, "src", "api", "main.go")))
	assert.True(t, w.Matches(filepath.Join(root, "tether.yaml")))
	assert.False(t, w.Matches(filepath.Join(root, "src", "api", "main.py")))
	assert.False(t, w.Matches(filepath.Join(root, "README.md")))
}

func TestRun_ReportsMatchingChanges(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	w, err := New(root, []string{"src/**/*.go"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(paths []string) {
			select {
			case changes <- paths:
			default:
			}
		})
	}()

	// Give the watch loop a moment to start before triggering events.
	time.Sleep(100 * time.Millisecond)
	target := filepath.Join(srcDir, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0644))

	select {
	case paths := <-changes:
		assert.Contains(t, paths, target)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}
