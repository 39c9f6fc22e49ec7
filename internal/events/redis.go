package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBus implements Bus over Redis PUB/SUB so events reach subscribers on
// every node of a multi-instance deployment. Redis PUB/SUB is itself
// fire-and-forget, which matches the at-most-once contract.
type RedisBus struct {
	client *redis.Client
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewRedisBus connects to Redis and returns a Redis-backed event bus.
func NewRedisBus(addr string, logger zerolog.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBus{client: client, logger: logger}, nil
}

// Publish publishes the event on the given Redis channel.
func (b *RedisBus) Publish(ctx context.Context, topic string, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.client.Publish(ctx, topic, data).Err()
}

// Subscribe opens a Redis subscription on the topic and pumps decoded
// events into the subscription channel until it is cancelled.
func (b *RedisBus) Subscribe(topic string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := b.client.Subscribe(ctx, topic)

	ch := make(chan *Event, subscriptionBuffer)
	sub := &Subscription{Topic: topic, C: ch}
	sub.cancel = func() {
		cancelCtx()
		if err := pubsub.Close(); err != nil {
			b.logger.Warn().Err(err).Str("topic", topic).Msg("failed to close redis subscription")
		}
	}

	go b.pump(ctx, pubsub, ch)
	return sub, nil
}

func (b *RedisBus) pump(ctx context.Context, pubsub *redis.PubSub, ch chan<- *Event) {
	defer close(ch)

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping undecodable event")
				continue
			}

			select {
			case ch <- &event:
			default:
				// Subscriber too slow; drop for this subscriber only.
			}
		}
	}
}

// Close shuts down the Redis client. Open subscriptions terminate as their
// underlying connections close.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.client.Close()
}
