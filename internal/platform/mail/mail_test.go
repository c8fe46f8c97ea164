// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/mail"
)

func TestRedisOutbox_Send(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	outbox := mail.NewRedisOutbox(client, "mail:test", "noreply@yamdb.app")
	ctx := context.Background()

	err := outbox.Send(ctx, mail.Message{To: "critic@example.com", Subject: "Confirmation code", Body: "abc-123"})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, "mail:test", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, "critic@example.com", values["to"])
	assert.Equal(t, "Confirmation code", values["subject"])
	assert.Equal(t, "abc-123", values["body"])
	assert.Equal(t, "noreply@yamdb.app", values["from"])
}

func TestRedisOutbox_Failures(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	outbox := mail.NewRedisOutbox(client, "mail:test", "noreply@yamdb.app")

	assert.ErrorIs(t, outbox.Send(context.Background(), mail.Message{Subject: "x"}), mail.ErrInvalidMessage)

	server.Close()
	assert.Error(t, outbox.Send(context.Background(), mail.Message{To: "a@b.io", Subject: "x"}))
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := mail.NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)), "noreply@yamdb.app")

	require.NoError(t, sender.Send(context.Background(), mail.Message{To: "a@b.io", Subject: "Hi", Body: "code"}))
	assert.Contains(t, buf.String(), `"to":"a@b.io"`)
}
