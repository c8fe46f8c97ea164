// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the YaMDb database so that
// SQL built in repositories never spells an identifier twice.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Role      string
	FirstName string
	LastName  string
	Bio       string
	CreatedAt string
	UpdatedAt string

	// Constraint names surfaced by unique violations.
	UniqueUsername string
	UniqueEmail    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	Role:      "role",
	FirstName: "firstname",
	LastName:  "lastname",
	Bio:       "bio",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",

	UniqueUsername: "uq_account_username",
	UniqueEmail:    "uq_account_email",
}

// Columns returns all column names in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.FirstName,
		t.LastName, t.Bio, t.CreatedAt, t.UpdatedAt,
	}
}
