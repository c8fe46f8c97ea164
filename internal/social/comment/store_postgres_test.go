// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestCreateError(t *testing.T) {
	review := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "fk_comment_review"}
	author := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "fk_comment_author"}

	assert.EqualError(t, createError(review), "Review not found")
	assert.EqualError(t, createError(author), "User not found")
	assert.NoError(t, createError(nil))
}
