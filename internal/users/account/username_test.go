// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/users/account"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"ascii", "critic_42", true},
		{"punctuation", "a.b@c+d-e", true},
		{"unicode_letters", "Müller", true},
		{"cyrillic", "кинокритик", true},
		{"reserved_lower", "me", false},
		{"reserved_upper", "ME", false},
		{"reserved_mixed", "Me", false},
		{"contains_me", "meme", true},
		{"space", "film critic", false},
		{"slash", "a/b", false},
		{"empty", "", false},
		{"too_long", strings.Repeat("a", account.MaxUsernameLength+1), false},
		{"max_length", strings.Repeat("a", account.MaxUsernameLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := account.ValidateUsername(tt.username)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}
}

func TestValidateIdentity(t *testing.T) {
	assert.NoError(t, account.ValidateIdentity("critic", "critic@example.com"))

	ae := apperr.As(account.ValidateIdentity("me", "nope"))
	if assert.NotNil(t, ae) {
		assert.Len(t, ae.Details, 2)
	}
}
