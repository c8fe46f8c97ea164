// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Repository Contracts

// CodeLedger remembers exchanged confirmation codes.
type CodeLedger interface {
	// Consume marks code as used for ttl. It returns false when the code had
	// already been consumed. The check and the mark are one atomic step.
	Consume(context context.Context, code string, ttl time.Duration) (bool, error)
}

// MemoryCodeLedger is a process-local [CodeLedger] for tests and tooling.
type MemoryCodeLedger struct {
	mu       sync.Mutex
	consumed map[string]time.Time
	now      func() time.Time
}

// NewMemoryCodeLedger returns an empty ledger.
func NewMemoryCodeLedger() *MemoryCodeLedger {
	return &MemoryCodeLedger{consumed: make(map[string]time.Time), now: time.Now}
}

func (ledger *MemoryCodeLedger) Consume(_ context.Context, code string, ttl time.Duration) (bool, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	key := sec.Fingerprint(code)
	now := ledger.now()
	if expiry, ok := ledger.consumed[key]; ok && (expiry.IsZero() || now.Before(expiry)) {
		return false, nil
	}

	var expiry time.Time
	if ttl > 0 {
		expiry = now.Add(ttl)
	}
	ledger.consumed[key] = expiry
	return true, nil
}
