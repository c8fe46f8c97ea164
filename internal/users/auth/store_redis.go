// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// RedisCodeLedger implements [CodeLedger] with SET NX.
type RedisCodeLedger struct {
	client redis.Cmdable
}

// NewRedisCodeLedger creates a Redis-backed consumed-code ledger.
func NewRedisCodeLedger(client redis.Cmdable) *RedisCodeLedger {
	return &RedisCodeLedger{client: client}
}

/*
Consume records the code under a fingerprint key that expires with the code.

Parameters:
  - context: context.Context
  - code: the confirmation code as submitted
  - ttl: how long the mark is kept; it must outlive the code itself

Returns:
  - bool: true when this call consumed the code
  - error: connectivity errors
*/
func (repository *RedisCodeLedger) Consume(context context.Context, code string, ttl time.Duration) (bool, error) {
	key := constants.RedisPrefixConsumedCode + sec.Fingerprint(code)

	fresh, err := repository.client.SetNX(context, key, time.Now().UTC().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_code_consume_failed: %w", err)
	}
	return fresh, nil
}
