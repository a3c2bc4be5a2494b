// Package redisstream publishes diplomacy events to a Redis stream.
package redisstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultStream carries every committed diplomacy event.
	DefaultStream = "diplomacy_events"
	// DefaultGroup is the consumer group used by tailing tools.
	DefaultGroup = "diplomacy_observers"
)

type Publisher struct {
	client *redis.Client
	stream string
	group  string
}

var _ ports.EventPublisher = (*Publisher)(nil)

// New creates a Publisher; empty names fall back to the defaults.
func New(client *redis.Client, stream, group string) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	if group == "" {
		group = DefaultGroup
	}
	return &Publisher{client: client, stream: stream, group: group}
}

// ConnectRedis creates a Redis client from a URL.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// EnsureStream creates the consumer group if it doesn't exist.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	err := p.client.XGroupCreateMkStream(ctx, p.stream, p.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create group %s on %s: %w", p.group, p.stream, err)
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, events []diplomacy.Event) error {
	if len(events) == 0 {
		return nil
	}
	pipe := p.client.Pipeline()
	for _, evt := range events {
		values, err := encode(evt)
		if err != nil {
			return err
		}
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: p.stream, Values: values})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

// Message is one event read back from the stream.
type Message struct {
	ID    string
	Event diplomacy.Event
}

// Read blocks up to block for at most count new messages for consumer.
func (p *Publisher) Read(ctx context.Context, consumer string, count int64, block time.Duration) ([]Message, error) {
	streams, err := p.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    p.group,
		Consumer: consumer,
		Streams:  []string{p.stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	out := []Message{}
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			evt, err := decode(msg.Values)
			if err != nil {
				return out, fmt.Errorf("decode message %s: %w", msg.ID, err)
			}
			out = append(out, Message{ID: msg.ID, Event: evt})
		}
	}
	return out, nil
}

func (p *Publisher) Ack(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return p.client.XAck(ctx, p.stream, p.group, ids...).Err()
}

func (p *Publisher) Len(ctx context.Context) (int64, error) {
	return p.client.XLen(ctx, p.stream).Result()
}

func encode(evt diplomacy.Event) (map[string]any, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", evt.Type, err)
	}
	return map[string]any{
		"type":      evt.Type,
		"turn":      strconv.Itoa(evt.Turn),
		"sender":    strconv.Itoa(int(evt.Sender)),
		"recipient": strconv.Itoa(int(evt.Recipient)),
		"payload":   string(payload),
	}, nil
}

func decode(values map[string]any) (diplomacy.Event, error) {
	var evt diplomacy.Event
	raw := getString(values, "payload")
	if raw == "" {
		return evt, fmt.Errorf("message has no payload")
	}
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		return evt, err
	}
	return evt, nil
}

func getString(values map[string]any, key string) string {
	if v, ok := values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
