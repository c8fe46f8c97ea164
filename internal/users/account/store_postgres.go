// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on users.account.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository creates a new PostgreSQL-backed account repository.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.UserAccount.Columns(), ", ")

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Role, &user.FirstName,
		&user.LastName, &user.Bio, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// Create inserts the account. Duplicate usernames or emails are CONFLICT.
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table, selectColumns)

	now := time.Now().UTC().Truncate(time.Microsecond)
	user.CreatedAt, user.UpdatedAt = now, now

	_, err := repository.db.Exec(context, statement,
		user.ID, user.Username, user.Email, user.Role, user.FirstName,
		user.LastName, user.Bio, user.CreatedAt, user.UpdatedAt,
	)
	return wrapWrite(err, "create_account")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

func (repository *PostgresRepository) findBy(context context.Context, column, value string) (*User, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.UserAccount.Table, column)

	user, err := scanUser(repository.db.QueryRow(context, statement, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_account_by_"+column)
	}
	return user, nil
}

// List returns every account ordered by username.
func (repository *PostgresRepository) List(context context.Context) ([]*User, error) {
	t := schema.UserAccount
	statement := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, selectColumns, t.Table, t.Username)

	rows, err := repository.db.Query(context, statement)
	if err != nil {
		return nil, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_account")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_accounts")
	}
	return users, nil
}

// Update writes the mutable fields of the account and bumps updatedat.
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	t := schema.UserAccount
	statement := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8 WHERE %s = $1`,
		t.Table, t.Username, t.Email, t.Role, t.FirstName, t.LastName, t.Bio, t.UpdatedAt, t.ID)

	user.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	tag, err := repository.db.Exec(context, statement,
		user.ID, user.Username, user.Email, user.Role, user.FirstName, user.LastName, user.Bio, user.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "update_account")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// Delete removes the account; authored reviews and comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.db.Exec(context, statement, id)
	if err != nil {
		return dberr.Wrap(err, "delete_account")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// wrapWrite names the column behind a unique violation.
func wrapWrite(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, schema.UserAccount.UniqueUsername):
		return apperr.Conflict("Username is already taken").WithCause(err)
	case dberr.IsUniqueViolation(err, schema.UserAccount.UniqueEmail):
		return apperr.Conflict("Email is already registered to another user").WithCause(err)
	default:
		return dberr.Wrap(err, action)
	}
}
