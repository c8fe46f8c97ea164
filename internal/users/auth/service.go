// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements passwordless sign-in.

Signup resolves the (username, email) pair to an account and mails a
confirmation code. The code is later exchanged for an RS256 access token that
carries the user's id, username and role. Requests then present the token and
[Service.Authorize] turns it into a policy decision.

Architecture:

  - CodeIssuer: stateless HMAC codes bound to the account's current state.
  - CodeLedger: remembers exchanged codes so each works once (Redis SET NX).
  - Service: orchestrates the identity store, issuer, ledger, mail and tokens.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/internal/users/account"
)

// # Contracts & Types

// Identities is the part of the identity store the sign-in flow needs.
// Satisfied by [*account.Service].
type Identities interface {
	FindOrCreate(context context.Context, username, email string) (*account.User, bool, error)
	FindByUsername(context context.Context, username string) (*account.User, error)
	FindByID(context context.Context, id string) (*account.User, error)
}

// TokenProvider mints and verifies access tokens. Satisfied by [*sec.TokenService].
type TokenProvider interface {
	GenerateAccessToken(userID, username string, role sec.UserRole, timeToLive time.Duration) (string, time.Time, error)
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// PendingUser is the signup response: the identity awaiting confirmation.
type PendingUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Token is an issued access token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service implements the sign-in use cases.
type Service struct {
	identities Identities
	codes      *CodeIssuer
	ledger     CodeLedger
	tokens     TokenProvider
	sender     mail.Sender
	tokenTTL   time.Duration
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its collaborators.
func NewService(
	identities Identities,
	codes *CodeIssuer,
	ledger CodeLedger,
	tokens TokenProvider,
	sender mail.Sender,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		identities: identities,
		codes:      codes,
		ledger:     ledger,
		tokens:     tokens,
		sender:     sender,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// # Signup

/*
Signup finds or creates the account and mails it a confirmation code.

Description: Calling it again for the same pair re-sends a new code; earlier
codes stay valid until they expire or the account changes. A mail failure is
logged and does not fail the call.

Returns:
  - *PendingUser: the submitted identity
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Signup(context context.Context, username, email string) (*PendingUser, error) {
	user, created, err := service.identities.FindOrCreate(context, username, email)
	if err != nil {
		return nil, err
	}

	code := service.codes.Issue(user)
	message := mail.Message{
		To:      user.Email,
		Subject: ConfirmationSubject,
		Body:    fmt.Sprintf(confirmationBody, user.Username, code, service.codes.TTL()),
	}

	if err := service.sender.Send(context, message); err != nil {
		service.logger.WarnContext(context, "signup_mail_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(context, "confirmation_code_issued",
		slog.String("user_id", user.ID),
		slog.Bool("created", created),
	)
	return &PendingUser{Username: user.Username, Email: user.Email}, nil
}

// # Token Exchange

/*
ExchangeCode trades a confirmation code for an access token.

Description: The code must verify against the account's current state and must
not have been exchanged before. The account itself is not modified.

Returns:
  - *Token: signed token and its expiry
  - error: VALIDATION_ERROR, NOT_FOUND (unknown user) or UNAUTHORIZED (bad code)
*/
func (service *Service) ExchangeCode(context context.Context, username, code string) (*Token, error) {
	if err := checkExchange(username, code); err != nil {
		return nil, err
	}

	user, err := service.identities.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if !service.codes.Verify(user, code) {
		service.logger.InfoContext(context, "confirmation_code_rejected", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized("Invalid confirmation code")
	}

	fresh, err := service.ledger.Consume(context, code, service.ledgerTTL())
	if err != nil {
		return nil, fmt.Errorf("auth_exchange_code: %w", err)
	}
	if !fresh {
		service.logger.WarnContext(context, "confirmation_code_replayed", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized("Confirmation code has already been used")
	}

	token, expiresAt, err := service.tokens.GenerateAccessToken(user.ID, user.Username, user.Role, service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_generate_token: %w", err)
	}

	service.logger.InfoContext(context, "token_issued",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return &Token{Token: token, ExpiresAt: expiresAt}, nil
}

func checkExchange(username, code string) error {
	if err := account.ValidateUsername(username); err != nil {
		return err
	}
	return (&validate.Validator{}).Required(FieldConfirmationCode, code).Err()
}

// ledgerTTL keeps a consumed mark at least as long as the code could verify.
func (service *Service) ledgerTTL() time.Duration {
	if service.codes.TTL() <= 0 {
		return 0
	}
	return service.codes.TTL() + 2*maxClockSkew
}

// # Authorization

/*
ResolveToken verifies a bearer token and reloads its account.

Description: The signature and expiry come from the token; the username and
role come from the stored account, so a demotion or deletion applies to tokens
issued before it.

Returns:
  - *sec.AuthClaims: the token's claims with the account's current identity
  - error: UNAUTHORIZED for a bad token or a deleted account, else storage failures
*/
func (service *Service) ResolveToken(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		service.logger.DebugContext(context, "token_rejected", slog.Any("error", err))
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	user, err := service.identities.FindByID(context, claims.UserID)
	if apperr.IsNotFound(err) {
		service.logger.InfoContext(context, "token_account_missing", slog.String("user_id", claims.UserID))
		return nil, apperr.Unauthorized("Account no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("auth_resolve_token: %w", err)
	}

	current := *claims
	current.Username = user.Username
	current.Role = user.Role
	return &current, nil
}

/*
Authorize resolves a bearer token to an actor and asks the policy engine.

An empty token is the anonymous actor. An invalid or expired token is
UNAUTHORIZED regardless of the operation.

Returns:
  - policy.Actor: the resolved caller
  - error: UNAUTHORIZED or FORBIDDEN when the operation is denied
*/
func (service *Service) Authorize(context context.Context, token string, op policy.Operation, kind policy.Kind, ownerID string) (policy.Actor, error) {
	actor := policy.Anonymous

	if token != "" {
		claims, err := service.ResolveToken(context, token)
		if err != nil {
			return policy.Anonymous, err
		}
		actor = policy.ActorFromClaims(claims)
	}

	if err := policy.Check(actor, ownerID, op, kind); err != nil {
		return actor, err
	}
	return actor, nil
}
