// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
	FieldExpiresAt        = "expires_at"
)

// # Mail

const (
	// ConfirmationSubject is the subject line of the signup email.
	ConfirmationSubject = "Your YaMDb confirmation code"

	confirmationBody = "Hello %s,\n\nyour confirmation code is:\n\n    %s\n\nExchange it at POST /api/v1/auth/token. It expires in %s.\n"
)
