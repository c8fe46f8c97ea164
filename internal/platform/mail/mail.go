// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail hands outgoing messages to a delivery collaborator.

The API never talks SMTP. A [Sender] either appends the message to a Redis
stream consumed by a separate mailer ([RedisOutbox]) or, in development,
writes it to the log ([LogSender]).
*/
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers or enqueues a message. Callers treat failures as non-fatal.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrInvalidMessage is returned for messages without a recipient or subject.
var ErrInvalidMessage = errors.New("mail: recipient and subject are required")

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" {
		return ErrInvalidMessage
	}
	return nil
}

// # Redis outbox

// outboxMaxLen caps the stream; XADD trims approximately past this length.
const outboxMaxLen = 10000

// RedisOutbox appends messages to a Redis stream.
type RedisOutbox struct {
	client redis.Cmdable
	stream string
	from   string
	now    func() time.Time
}

// NewRedisOutbox returns an outbox writing to stream with the given From address.
func NewRedisOutbox(client redis.Cmdable, stream, from string) *RedisOutbox {
	return &RedisOutbox{client: client, stream: stream, from: from, now: time.Now}
}

// Send appends msg to the stream as a flat field map.
func (o *RedisOutbox) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	err := o.client.XAdd(ctx, &redis.XAddArgs{
		Stream: o.stream,
		MaxLen: outboxMaxLen,
		Approx: true,
		Values: map[string]any{
			"from":      o.from,
			"to":        msg.To,
			"subject":   msg.Subject,
			"body":      msg.Body,
			"queued_at": o.now().UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("mail: enqueue to %s: %w", o.stream, err)
	}
	return nil
}

// # Development sender

// LogSender writes messages to the logger instead of sending them.
type LogSender struct {
	logger *slog.Logger
	from   string
}

// NewLogSender returns a sender that logs at info level.
func NewLogSender(logger *slog.Logger, from string) *LogSender {
	return &LogSender{logger: logger, from: from}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "mail_logged",
		slog.String("from", s.from),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}
