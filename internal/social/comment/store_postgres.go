// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on social.comment.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectComment = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, c.%s
	FROM %s c
	JOIN %s a ON a.%s = c.%s`,
	schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
	schema.UserAccount.Username,
	schema.SocialComment.Text, schema.SocialComment.PubDate, schema.SocialComment.UpdatedAt,
	schema.SocialComment.Table, schema.UserAccount.Table,
	schema.UserAccount.ID, schema.SocialComment.AuthorID,
)

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate, &comment.UpdatedAt,
	)
	return comment, err
}

// Create inserts the comment. A review or author deleted in the meantime is
// reported as NOT_FOUND for that resource.
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	t := schema.SocialComment
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5) RETURNING %s`,
		t.Table, t.ReviewID, t.AuthorID, t.Text, t.PubDate, t.UpdatedAt, t.ID)

	err := repository.db.QueryRow(context, query,
		comment.ReviewID, comment.AuthorID, comment.Text, comment.PubDate, comment.UpdatedAt,
	).Scan(&comment.ID)
	return createError(err)
}

func createError(err error) error {
	t := schema.SocialComment
	switch {
	case err == nil:
		return nil
	case dberr.IsForeignKeyViolation(err, t.ForeignAuthor):
		return apperr.NotFound("User").WithCause(err)
	case dberr.IsForeignKeyViolation(err, t.ForeignReview):
		return apperr.NotFound("Review").WithCause(err)
	default:
		return dberr.Wrap(err, "create_comment")
	}
}

func (repository *PostgresRepository) FindByID(context context.Context, reviewID, id int64) (*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1 AND c.%s = $2`, selectComment, schema.SocialComment.ID, schema.SocialComment.ReviewID)

	comment, err := scanComment(repository.db.QueryRow(context, query, id, reviewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Comment")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_comment")
	}
	return comment, nil
}

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID int64) ([]*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1 ORDER BY c.%s ASC, c.%s ASC`,
		selectComment, schema.SocialComment.ReviewID, schema.SocialComment.PubDate, schema.SocialComment.ID)

	rows, err := repository.db.Query(context, query, reviewID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}
	return comments, dberr.Wrap(rows.Err(), "list_comments")
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	t := schema.SocialComment
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`, t.Table, t.Text, t.UpdatedAt, t.ID)

	tag, err := repository.db.Exec(context, query, comment.ID, comment.Text, comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
