// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest master secret accepted by [DeriveKey].
const MinSecretLength = 32

// DeriveKey expands the master secret into a 32-byte subkey bound to info.
// Distinct info strings yield independent keys from the same secret.
func DeriveKey(secret, info string) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("sec: secret must be at least %d bytes", MinSecretLength)
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive key: %w", err)
	}
	return key, nil
}

// Sign returns the hex HMAC-SHA256 of the parts joined with a unit separator.
func Sign(key []byte, parts ...string) string {
	mac := hmac.New(sha256.New, key)
	for i, part := range parts {
		if i > 0 {
			mac.Write([]byte{0x1f})
		}
		mac.Write([]byte(part))
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// EqualSignature compares two hex signatures in constant time.
func EqualSignature(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

// Fingerprint is a one-way digest used to store secrets (such as consumed codes) as keys.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
