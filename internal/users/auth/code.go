// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
)

// maxClockSkew tolerates codes stamped slightly ahead of this instance's clock.
const maxClockSkew = time.Minute

// CodeIssuer issues and checks confirmation codes.
//
// A code is "<issued-at base36>-<hmac hex>". The MAC covers the user's id,
// username, email, role and last-update time, so any change to the account
// invalidates codes issued before it. Nothing is stored at issue time.
type CodeIssuer struct {
	key   []byte
	ttl   time.Duration
	clock clock.Clock
}

/*
NewCodeIssuer derives the signing subkey from the master secret.

Parameters:
  - secret: SESSION_SECRET, at least [sec.MinSecretLength] bytes
  - ttl: maximum code age; zero disables the age check
  - c: time source
*/
func NewCodeIssuer(secret string, ttl time.Duration, c clock.Clock) (*CodeIssuer, error) {
	key, err := sec.DeriveKey(secret, constants.ConfirmationCodeInfo)
	if err != nil {
		return nil, fmt.Errorf("code_issuer: %w", err)
	}
	return &CodeIssuer{key: key, ttl: ttl, clock: c}, nil
}

// TTL is the maximum age of a code.
func (issuer *CodeIssuer) TTL() time.Duration { return issuer.ttl }

// Issue returns a fresh code bound to the user's current state.
func (issuer *CodeIssuer) Issue(user *account.User) string {
	stamp := strconv.FormatInt(issuer.clock.Now().Unix(), 36)
	return stamp + "-" + issuer.sign(user, stamp)
}

// Verify reports whether code was issued for the user in its current state and
// has not aged out.
func (issuer *CodeIssuer) Verify(user *account.User, code string) bool {
	stamp, mac, ok := strings.Cut(strings.TrimSpace(code), "-")
	if !ok || stamp == "" || mac == "" {
		return false
	}

	seconds, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil || seconds < 0 {
		return false
	}

	age := issuer.clock.Now().Sub(time.Unix(seconds, 0))
	if age < -maxClockSkew || (issuer.ttl > 0 && age > issuer.ttl) {
		return false
	}

	return sec.EqualSignature(mac, issuer.sign(user, stamp))
}

func (issuer *CodeIssuer) sign(user *account.User, stamp string) string {
	return sec.Sign(issuer.key,
		user.ID,
		user.Username,
		user.Email,
		string(user.Role),
		strconv.FormatInt(user.UpdatedAt.UnixMicro(), 10),
		stamp,
	)
}
