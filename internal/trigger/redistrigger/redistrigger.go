// Package redistrigger dispatches Redis pub/sub messages to an application's
// components. Each message runs the owning component's command with the
// payload on stdin.
package redistrigger

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"tether.dev/cli/internal/core/manifest"
)

// Type is the trigger type name.
const Type = "redis"

// DefaultAddress is the broker address when neither flag nor manifest set one.
const DefaultAddress = "localhost:6379"

// Handler consumes one message for one component. Exposed so tests can
// observe dispatch without spawning processes.
type Handler func(ctx context.Context, app *manifest.Application, comp manifest.Component, payload []byte) error

// Trigger is the Redis protocol backend.
type Trigger struct {
	// Address is the broker address. The --address flag and the manifest
	// trigger address override it in that order of precedence.
	Address string
	// Handler defaults to executing the component command.
	Handler Handler

	addressFlag *string
}

// Type implements trigger.Backend.
func (t *Trigger) Type() string { return Type }

// Flags implements trigger.Backend.
func (t *Trigger) Flags(fs *pflag.FlagSet) {
	t.addressFlag = fs.String("address", "", "Redis broker address (host:port)")
}

// Run implements trigger.Backend. It subscribes to every component channel
// and dispatches messages until ctx is cancelled.
func (t *Trigger) Run(ctx context.Context, app *manifest.Application) error {
	byChannel := make(map[string]manifest.Component)
	channels := make([]string, 0, len(app.Components))
	for _, comp := range app.Components {
		if comp.Channel == "" {
			continue
		}
		if _, dup := byChannel[comp.Channel]; dup {
			return fmt.Errorf("channel %q is claimed by more than one component", comp.Channel)
		}
		byChannel[comp.Channel] = comp
		channels = append(channels, comp.Channel)
	}
	if len(channels) == 0 {
		return fmt.Errorf("application %q has no components with a channel", app.Name)
	}

	client := redis.NewClient(&redis.Options{Addr: t.resolveAddress(app)})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	sub := client.Subscribe(ctx, channels...)
	defer sub.Close()

	handler := t.Handler
	if handler == nil {
		handler = execHandler
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Strs("channels", channels).Msg("redis trigger subscribed")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			comp := byChannel[msg.Channel]
			if err := handler(ctx, app, comp, []byte(msg.Payload)); err != nil {
				logger.Error().Err(err).
					Str("component", comp.ID).
					Str("channel", msg.Channel).
					Msg("message handling failed")
			}
		}
	}
}

// execHandler runs the component command with the payload on stdin.
func execHandler(ctx context.Context, app *manifest.Application, comp manifest.Component, payload []byte) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", comp.Command)
	cmd.Dir = app.Dir
	cmd.Env = append(cmd.Environ(), comp.Env...)
	cmd.Env = append(cmd.Env,
		"TETHER_COMPONENT="+comp.ID,
		"TETHER_CHANNEL="+comp.Channel,
	)
	cmd.Stdin = strings.NewReader(string(payload))

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("component %q failed: %w: %s", comp.ID, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (t *Trigger) resolveAddress(app *manifest.Application) string {
	addr := DefaultAddress
	if app.Trigger.Address != "" {
		addr = app.Trigger.Address
	}
	if t.Address != "" {
		addr = t.Address
	}
	if t.addressFlag != nil && *t.addressFlag != "" {
		addr = *t.addressFlag
	}
	// Accept redis:// URLs from manifests for convenience.
	return strings.TrimPrefix(addr, "redis://")
}
