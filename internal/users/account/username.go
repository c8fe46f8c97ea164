// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"regexp"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// ReservedUsername addresses the caller's own profile in /users/me.
const ReservedUsername = "me"

// usernamePattern allows Unicode letters and digits plus _ . @ + -
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ValidateUsername is the single username rule applied wherever a username is accepted.
func ValidateUsername(username string) error {
	return checkUsername(&validate.Validator{}, username).Err()
}

func checkUsername(v *validate.Validator, username string) *validate.Validator {
	if strings.TrimSpace(username) == "" {
		return v.Required(FieldUsername, username)
	}
	return v.
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Match(FieldUsername, username, usernamePattern, "Only letters, digits and @/./+/-/_ are allowed").
		Custom(FieldUsername, strings.EqualFold(username, ReservedUsername), `"me" cannot be used as a username`)
}

func checkEmail(v *validate.Validator, email string) *validate.Validator {
	if strings.TrimSpace(email) == "" {
		return v.Required(FieldEmail, email)
	}
	return v.MaxLen(FieldEmail, email, MaxEmailLength).Email(FieldEmail, email)
}

// ValidateIdentity checks a (username, email) pair as submitted at signup.
func ValidateIdentity(username, email string) error {
	v := &validate.Validator{}
	checkUsername(v, username)
	checkEmail(v, email)
	return v.Err()
}
