// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newIssuer(t *testing.T, ttl time.Duration) (*auth.CodeIssuer, *clock.Fixed) {
	t.Helper()
	clk := clock.NewFixed(epoch)
	issuer, err := auth.NewCodeIssuer(testSecret, ttl, clk)
	require.NoError(t, err)
	return issuer, clk
}

func sampleUser() *account.User {
	return &account.User{
		ID:        "0190f1c2-0000-7000-8000-000000000001",
		Username:  "critic",
		Email:     "critic@example.com",
		Role:      sec.RoleUser,
		UpdatedAt: epoch.Add(-time.Hour),
	}
}

func TestCodeIssuer_RoundTrip(t *testing.T) {
	issuer, clk := newIssuer(t, time.Hour)
	user := sampleUser()

	first := issuer.Issue(user)
	assert.True(t, issuer.Verify(user, first))

	// Re-issuing leaves earlier codes valid.
	clk.Advance(time.Minute)
	second := issuer.Issue(user)
	assert.NotEqual(t, first, second)
	assert.True(t, issuer.Verify(user, first))
	assert.True(t, issuer.Verify(user, second))
}

/*
TestCodeIssuer_StateChangeInvalidates verifies every bound field is covered by the MAC.
*/
func TestCodeIssuer_StateChangeInvalidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*account.User)
	}{
		{"id", func(u *account.User) { u.ID = "0190f1c2-0000-7000-8000-000000000002" }},
		{"username", func(u *account.User) { u.Username = "critic2" }},
		{"email", func(u *account.User) { u.Email = "other@example.com" }},
		{"role", func(u *account.User) { u.Role = sec.RoleModerator }},
		{"updated_at", func(u *account.User) { u.UpdatedAt = u.UpdatedAt.Add(time.Microsecond) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, _ := newIssuer(t, time.Hour)
			user := sampleUser()
			code := issuer.Issue(user)

			tt.mutate(user)
			assert.False(t, issuer.Verify(user, code))
		})
	}
}

func TestCodeIssuer_Expiry(t *testing.T) {
	issuer, clk := newIssuer(t, time.Hour)
	user := sampleUser()
	code := issuer.Issue(user)

	clk.Advance(time.Hour)
	assert.True(t, issuer.Verify(user, code))

	clk.Advance(time.Second)
	assert.False(t, issuer.Verify(user, code))
}

func TestCodeIssuer_NoTTL(t *testing.T) {
	issuer, clk := newIssuer(t, 0)
	user := sampleUser()
	code := issuer.Issue(user)

	clk.Advance(365 * 24 * time.Hour)
	assert.True(t, issuer.Verify(user, code))
}

func TestCodeIssuer_Malformed(t *testing.T) {
	issuer, _ := newIssuer(t, time.Hour)
	user := sampleUser()
	valid := issuer.Issue(user)
	stamp, mac, _ := strings.Cut(valid, "-")
	future := strconv.FormatInt(epoch.Add(time.Hour).Unix(), 36)

	for _, code := range []string{
		"",
		"abc",
		"-",
		stamp + "-",
		"-" + mac,
		"!!-" + mac,
		stamp + "-" + strings.Repeat("0", len(mac)),
		future + "-" + mac,
		strings.ToUpper(valid),
	} {
		assert.False(t, issuer.Verify(user, code), "code %q", code)
	}
}

func TestCodeIssuer_SeparateSecrets(t *testing.T) {
	issuer, _ := newIssuer(t, time.Hour)
	other, err := auth.NewCodeIssuer(strings.Repeat("x", sec.MinSecretLength), time.Hour, clock.NewFixed(epoch))
	require.NoError(t, err)

	user := sampleUser()
	assert.False(t, other.Verify(user, issuer.Issue(user)))

	_, err = auth.NewCodeIssuer("short", time.Hour, clock.NewFixed(epoch))
	assert.Error(t, err)
}
