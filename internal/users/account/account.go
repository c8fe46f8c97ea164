// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account is the identity store of YaMDb.

Accounts carry no credentials: an identity is the (username, email) pair, and
access is proven by exchanging an emailed confirmation code for a token (see
package auth). This package owns the user records, their validation, role
changes and the admin and self-service management surface.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User is a registered member of the platform.
type User struct {
	ID        string       `json:"-"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"-"`
	UpdatedAt time.Time    `json:"-"`
}

// # Field Identifiers

const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldBio       = "bio"
	FieldRole      = "role"
)

// # Limits

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 150
)

// # Repository Contracts

// Repository persists user accounts.
//
// Implementations must enforce username and email uniqueness atomically and
// report violations as CONFLICT, and report absent rows as NOT_FOUND.
type Repository interface {
	Create(context context.Context, user *User) error
	FindByID(context context.Context, id string) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)

	// List returns every account ordered by username.
	List(context context.Context) ([]*User, error)

	// Update writes all mutable fields and bumps UpdatedAt.
	Update(context context.Context, user *User) error
	Delete(context context.Context, id string) error
}
