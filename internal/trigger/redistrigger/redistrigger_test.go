package redistrigger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether.dev/cli/internal/core/manifest"
)

func redisApp(addr string) *manifest.Application {
	return &manifest.Application{
		Name:    "orders",
		Trigger: manifest.Trigger{Type: Type, Address: addr},
		Components: []manifest.Component{
			{ID: "ingest", Command: "cat", Channel: "orders.created"},
		},
	}
}

func TestRun_DispatchesMessagesToComponent(t *testing.T) {
	mr := miniredis.RunT(t)

	var mu sync.Mutex
	var received []string
	trig := &Trigger{
		Handler: func(_ context.Context, _ *manifest.Application, comp manifest.Component, payload []byte) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, comp.ID+":"+string(payload))
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- trig.Run(ctx, redisApp(mr.Addr()))
	}()

	// Wait for the subscription to land before publishing.
	require.Eventually(t, func() bool {
		return mr.Publish("orders.created", `{"id":1}`) > 0
	}, 3*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	assert.Equal(t, `ingest:{"id":1}`, received[0])
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("trigger did not stop on context cancellation")
	}
}

func TestRun_RequiresChannelComponents(t *testing.T) {
	mr := miniredis.RunT(t)

	app := &manifest.Application{
		Name:       "empty",
		Trigger:    manifest.Trigger{Type: Type, Address: mr.Addr()},
		Components: []manifest.Component{{ID: "api", Command: "cat"}},
	}

	err := (&Trigger{}).Run(context.Background(), app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no components with a channel")
}

func TestRun_RejectsDuplicateChannels(t *testing.T) {
	app := &manifest.Application{
		Name:    "dup",
		Trigger: manifest.Trigger{Type: Type},
		Components: []manifest.Component{
			{ID: "a", Command: "cat", Channel: "same"},
			{ID: "b", Command: "cat", Channel: "same"},
		},
	}

	err := (&Trigger{}).Run(context.Background(), app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `channel "same" is claimed by more than one component`)
}

func TestResolveAddress_Precedence(t *testing.T) {
	app := redisApp("redis://manifest:6379")

	t.Run("manifest address", func(t *testing.T) {
		assert.Equal(t, "manifest:6379", (&Trigger{}).resolveAddress(app))
	})

	t.Run("struct address overrides manifest", func(t *testing.T) {
		trig := &Trigger{Address: "struct:6379"}
		assert.Equal(t, "struct:6379", trig.resolveAddress(app))
	})

	t.Run("default when nothing set", func(t *testing.T) {
		assert.Equal(t, DefaultAddress, (&Trigger{}).resolveAddress(&manifest.Application{}))
	})
}
