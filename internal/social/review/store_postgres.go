// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

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

// PostgresRepository implements [Repository] on social.review.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectReview joins the author so reviews render with a username.
var selectReview = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s, r.%s
	FROM %s r
	JOIN %s a ON a.%s = r.%s`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
	schema.UserAccount.Username,
	schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate, schema.SocialReview.UpdatedAt,
	schema.SocialReview.Table, schema.UserAccount.Table,
	schema.UserAccount.ID, schema.SocialReview.AuthorID,
)

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate, &review.UpdatedAt,
	)
	return review, err
}

/*
Create inserts the review in a single statement.

Description: The UNIQUE (authorid, titleid) constraint decides concurrent
duplicates; the loser gets CONFLICT. A title or author removed in the meantime
surfaces as a foreign-key violation and is reported as NOT_FOUND for that
resource.
*/
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	t := schema.SocialReview
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s`,
		t.Table, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate, t.UpdatedAt, t.ID)

	err := repository.db.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score, review.PubDate, review.UpdatedAt,
	).Scan(&review.ID)
	return createError(err)
}

// createError maps the outcome of the review INSERT onto the error taxonomy.
func createError(err error) error {
	t := schema.SocialReview
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, t.UniqueAuthorTitle):
		return apperr.Conflict("You have already reviewed this title").WithCause(err)
	case dberr.IsForeignKeyViolation(err, t.ForeignAuthor):
		return apperr.NotFound("User").WithCause(err)
	case dberr.IsForeignKeyViolation(err, t.ForeignTitle):
		return apperr.NotFound("Title").WithCause(err)
	default:
		return dberr.Wrap(err, "create_review")
	}
}

func (repository *PostgresRepository) FindByID(context context.Context, titleID, id int64) (*Review, error) {
	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`, selectReview, schema.SocialReview.ID, schema.SocialReview.TitleID)

	review, err := scanReview(repository.db.QueryRow(context, query, id, titleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Review")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_review")
	}
	return review, nil
}

func (repository *PostgresRepository) ListByTitle(context context.Context, titleID int64) ([]*Review, error) {
	query := fmt.Sprintf(`%s WHERE r.%s = $1 ORDER BY r.%s ASC, r.%s ASC`,
		selectReview, schema.SocialReview.TitleID, schema.SocialReview.PubDate, schema.SocialReview.ID)

	rows, err := repository.db.Query(context, query, titleID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}
	return reviews, dberr.Wrap(rows.Err(), "list_reviews")
}

func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	t := schema.SocialReview
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		t.Table, t.Text, t.Score, t.UpdatedAt, t.ID)

	tag, err := repository.db.Exec(context, query, review.ID, review.Text, review.Score, review.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialReview.Table, schema.SocialReview.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// # Aggregates

// MeanScore computes AVG(score) at read time; NULL without reviews maps to nil.
func (repository *PostgresRepository) MeanScore(context context.Context, titleID int64) (*float64, error) {
	query := fmt.Sprintf(`SELECT AVG(%s)::float8 FROM %s WHERE %s = $1`,
		schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID)

	var mean *float64
	if err := repository.db.QueryRow(context, query, titleID).Scan(&mean); err != nil {
		return nil, dberr.Wrap(err, "review_mean_score")
	}
	return mean, nil
}

func (repository *PostgresRepository) MeanScores(context context.Context, titleIDs []int64) (map[int64]float64, error) {
	t := schema.SocialReview
	query := fmt.Sprintf(`SELECT %s, AVG(%s)::float8 FROM %s WHERE %s = ANY($1) GROUP BY %s`,
		t.TitleID, t.Score, t.Table, t.TitleID, t.TitleID)

	rows, err := repository.db.Query(context, query, titleIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "review_mean_scores")
	}
	defer rows.Close()

	means := make(map[int64]float64, len(titleIDs))
	for rows.Next() {
		var (
			titleID int64
			mean    float64
		)
		if err := rows.Scan(&titleID, &mean); err != nil {
			return nil, dberr.Wrap(err, "scan_mean_score")
		}
		means[titleID] = mean
	}
	return means, dberr.Wrap(rows.Err(), "review_mean_scores")
}
