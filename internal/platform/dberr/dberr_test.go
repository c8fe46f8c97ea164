// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_review_author_title"}
	foreign := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	check := &pgconn.PgError{Code: pgerrcode.CheckViolation}
	syntax := &pgconn.PgError{Code: pgerrcode.SyntaxError}

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"unique", fmt.Errorf("insert: %w", unique), apperr.CodeConflict},
		{"foreign_key", foreign, apperr.CodeNotFound},
		{"check", check, apperr.CodeValidation},
		{"other_sqlstate", syntax, apperr.CodeInternal},
		{"plain", errors.New("connection reset"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.HasCode(dberr.Wrap(tt.err, "test"), tt.code))
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "test"))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_users_email"})

	assert.True(t, dberr.IsUniqueViolation(err, ""))
	assert.True(t, dberr.IsUniqueViolation(err, "uq_users_email"))
	assert.False(t, dberr.IsUniqueViolation(err, "uq_users_username"))
	assert.False(t, dberr.IsUniqueViolation(pgx.ErrNoRows, ""))
	assert.False(t, dberr.IsForeignKeyViolation(err, ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "fk_review_author"})

	assert.True(t, dberr.IsForeignKeyViolation(err, ""))
	assert.True(t, dberr.IsForeignKeyViolation(err, "fk_review_author"))
	assert.False(t, dberr.IsForeignKeyViolation(err, "fk_review_title"))
	assert.False(t, dberr.IsForeignKeyViolation(errors.New("plain"), ""))
}
