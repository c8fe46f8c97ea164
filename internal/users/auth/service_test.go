// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # Fixtures

type outbox struct {
	mu       sync.Mutex
	messages []mail.Message
	fail     error
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.messages = append(o.messages, msg)
	return nil
}

var codePattern = regexp.MustCompile(`[0-9a-z]+-[0-9a-f]{64}`)

// lastCode extracts the code from the most recent message.
func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.messages)
	code := codePattern.FindString(o.messages[len(o.messages)-1].Body)
	require.NotEmpty(t, code)
	return code
}

type fixture struct {
	service  *auth.Service
	accounts *account.Service
	tokens   *sec.TokenService
	clock    *clock.Fixed
	outbox   *outbox
	redis    *miniredis.Miniredis
	logs     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer)

	clk := clock.NewFixed(time.Now().UTC())
	codes, err := auth.NewCodeIssuer(testSecret, 24*time.Hour, clk)
	require.NoError(t, err)

	accounts := account.NewService(account.NewMemoryRepository(), logger)
	box := &outbox{}

	return &fixture{
		service:  auth.NewService(accounts, codes, auth.NewRedisCodeLedger(client), tokens, box, time.Hour, logger),
		accounts: accounts,
		tokens:   tokens,
		clock:    clk,
		outbox:   box,
		redis:    server,
		logs:     logs,
	}
}

func (f *fixture) signIn(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()
	_, err := f.service.Signup(ctx, username, username+"@example.com")
	require.NoError(t, err)
	token, err := f.service.ExchangeCode(ctx, username, f.outbox.lastCode(t))
	require.NoError(t, err)
	return token.Token
}

// # Signup & Exchange

func TestSignupAndExchange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending, err := f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	assert.Equal(t, &auth.PendingUser{Username: "critic", Email: "critic@example.com"}, pending)

	require.Len(t, f.outbox.messages, 1)
	assert.Equal(t, "critic@example.com", f.outbox.messages[0].To)
	assert.Equal(t, auth.ConfirmationSubject, f.outbox.messages[0].Subject)

	token, err := f.service.ExchangeCode(ctx, "critic", f.outbox.lastCode(t))
	require.NoError(t, err)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	claims, err := f.tokens.VerifyToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "critic", claims.Username)
	assert.Equal(t, sec.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.UserID)
}

func TestExchangeCode_SingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	code := f.outbox.lastCode(t)

	_, err = f.service.ExchangeCode(ctx, "critic", code)
	require.NoError(t, err)

	_, err = f.service.ExchangeCode(ctx, "critic", code)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestSignup_Resend verifies a repeated signup sends a new code and keeps the old one valid.
*/
func TestSignup_Resend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	first := f.outbox.lastCode(t)

	f.clock.Advance(time.Minute)
	_, err = f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	second := f.outbox.lastCode(t)
	assert.NotEqual(t, first, second)

	_, err = f.service.ExchangeCode(ctx, "critic", first)
	assert.NoError(t, err)
	_, err = f.service.ExchangeCode(ctx, "critic", second)
	assert.NoError(t, err)
}

func TestSignup_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	sent := len(f.outbox.messages)

	_, err = f.service.Signup(ctx, "critic", "someone@example.com")
	assert.True(t, apperr.IsConflict(err))

	_, err = f.service.Signup(ctx, "mE", "me@example.com")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	assert.Len(t, f.outbox.messages, sent)
}

func TestSignup_MailFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	f.outbox.fail = errors.New("smtp down")

	pending, err := f.service.Signup(context.Background(), "critic", "critic@example.com")
	require.NoError(t, err)
	assert.Equal(t, "critic", pending.Username)
	assert.Contains(t, f.logs.String(), "signup_mail_failed")
}

func TestExchangeCode_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	criticCode := f.outbox.lastCode(t)
	_, err = f.service.Signup(ctx, "other", "other@example.com")
	require.NoError(t, err)

	_, err = f.service.ExchangeCode(ctx, "ghost", criticCode)
	assert.True(t, apperr.IsNotFound(err), "unknown user")

	_, err = f.service.ExchangeCode(ctx, "other", criticCode)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "code of another user")

	_, err = f.service.ExchangeCode(ctx, "critic", "nonsense")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "garbage")

	_, err = f.service.ExchangeCode(ctx, "critic", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "empty code")

	_, err = f.service.ExchangeCode(ctx, "Me", criticCode)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "reserved name")

	f.clock.Advance(25 * time.Hour)
	_, err = f.service.ExchangeCode(ctx, "critic", criticCode)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "expired")
}

func TestExchangeCode_RoleChangeInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	code := f.outbox.lastCode(t)

	admin := policy.Actor{ID: "admin-id", Role: sec.RoleAdmin}
	_, err = f.accounts.SetRole(ctx, admin, "critic", sec.RoleModerator)
	require.NoError(t, err)

	_, err = f.service.ExchangeCode(ctx, "critic", code)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	// A fresh code carries the new role.
	_, err = f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	token, err := f.service.ExchangeCode(ctx, "critic", f.outbox.lastCode(t))
	require.NoError(t, err)

	claims, err := f.tokens.VerifyToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, claims.Role)
}

func TestExchangeCode_LedgerUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, "critic", "critic@example.com")
	require.NoError(t, err)
	code := f.outbox.lastCode(t)

	f.redis.Close()
	_, err = f.service.ExchangeCode(ctx, "critic", code)
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
}

// # Authorization

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token := f.signIn(t, "critic")
	claims, err := f.tokens.VerifyToken(token)
	require.NoError(t, err)

	actor, err := f.service.Authorize(ctx, "", policy.OpList, policy.KindReview, "")
	require.NoError(t, err)
	assert.False(t, actor.Authenticated())

	_, err = f.service.Authorize(ctx, "", policy.OpCreate, policy.KindReview, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = f.service.Authorize(ctx, "not-a-jwt", policy.OpList, policy.KindTitle, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	actor, err = f.service.Authorize(ctx, token, policy.OpUpdate, policy.KindReview, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "critic", actor.Username)

	_, err = f.service.Authorize(ctx, token, policy.OpDelete, policy.KindComment, "someone-else")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.Authorize(ctx, token, policy.OpCreate, policy.KindTitle, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

/*
TestResolveToken_ReadsStoredAccount checks that a token issued before a
demotion or deletion carries the account's current state.
*/
func TestResolveToken_ReadsStoredAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := policy.Actor{ID: "admin-id", Role: sec.RoleAdmin}

	_, err := f.accounts.Create(ctx, admin, account.CreateInput{Username: "mod", Email: "mod@example.com", Role: "moderator"})
	require.NoError(t, err)
	token := f.signIn(t, "mod")

	claims, err := f.service.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, claims.Role)

	_, err = f.service.Authorize(ctx, token, policy.OpDelete, policy.KindReview, "someone-else")
	require.NoError(t, err)

	_, err = f.accounts.SetRole(ctx, admin, "mod", sec.RoleUser)
	require.NoError(t, err)

	claims, err = f.service.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, claims.Role)

	_, err = f.service.Authorize(ctx, token, policy.OpDelete, policy.KindReview, "someone-else")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	require.NoError(t, f.accounts.Delete(ctx, admin, "mod"))

	_, err = f.service.ResolveToken(ctx, token)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = f.service.Authorize(ctx, token, policy.OpCreate, policy.KindReview, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

// # Ledger

func TestMemoryCodeLedger(t *testing.T) {
	ledger := auth.NewMemoryCodeLedger()
	ctx := context.Background()

	fresh, err := ledger.Consume(ctx, "abc-123", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = ledger.Consume(ctx, "abc-123", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, _ = ledger.Consume(ctx, "abc-456", time.Hour)
	assert.True(t, fresh)
}

func TestRedisCodeLedger_Expires(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ledger := auth.NewRedisCodeLedger(client)
	ctx := context.Background()

	fresh, err := ledger.Consume(ctx, "abc-123", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = ledger.Consume(ctx, "abc-123", time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	server.FastForward(2 * time.Minute)
	fresh, err = ledger.Consume(ctx, "abc-123", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	// The raw code never appears in a key.
	for _, key := range server.Keys() {
		assert.NotContains(t, key, "abc-123")
	}
}
