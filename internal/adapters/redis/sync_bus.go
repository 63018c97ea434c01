// Package redis provides Redis-based adapters for the session shell.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
)

// DefaultSyncChannel is the pub/sub channel used when none is configured.
const DefaultSyncChannel = "opscenter:session:sync"

// SyncBus carries cross-instance session signals over Redis pub/sub.
// Delivery is best effort: signals published while a subscriber is disconnected are lost.
type SyncBus struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

var _ ports.SyncBus = (*SyncBus)(nil)

// NewSyncBus creates a Redis-backed sync bus on the default channel.
func NewSyncBus(client redis.UniversalClient, logger *slog.Logger) *SyncBus {
	return NewSyncBusWithChannel(client, DefaultSyncChannel, logger)
}

// NewSyncBusWithChannel creates a Redis-backed sync bus on a custom channel.
func NewSyncBusWithChannel(client redis.UniversalClient, channel string, logger *slog.Logger) *SyncBus {
	if strings.TrimSpace(channel) == "" {
		channel = DefaultSyncChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncBus{client: client, channel: channel, logger: logger.With("component", "sync_bus")}
}

// Channel returns the pub/sub channel name.
func (b *SyncBus) Channel() string { return b.channel }

func (b *SyncBus) Publish(ctx context.Context, sig ports.SyncSignal) error {
	if sig.Key == "" {
		return errors.New("sync signal key cannot be empty")
	}
	data, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal sync signal: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe confirms the subscription before returning, so a signal published after
// Subscribe returns is never missed.
func (b *SyncBus) Subscribe(ctx context.Context) (<-chan ports.SyncSignal, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		if cerr := pubsub.Close(); cerr != nil {
			b.logger.Debug("close pubsub after failed subscribe", "error", cerr)
		}
		return nil, fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}

	out := make(chan ports.SyncSignal, 16)
	go func() {
		defer close(out)
		defer func() {
			if err := pubsub.Close(); err != nil {
				b.logger.Debug("close pubsub", "error", err)
			}
		}()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var sig ports.SyncSignal
				if err := json.Unmarshal([]byte(msg.Payload), &sig); err != nil || sig.Key == "" {
					b.logger.Warn("dropping malformed sync signal", "payload", msg.Payload)
					continue
				}
				select {
				case out <- sig:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
