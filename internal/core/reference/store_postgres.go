// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on core.category or core.genre.
type PostgresRepository struct {
	db       postgres.Querier
	taxonomy Taxonomy
}

// NewPostgresRepository returns a repository over the taxonomy's table.
func NewPostgresRepository(db postgres.Querier, taxonomy Taxonomy) *PostgresRepository {
	return &PostgresRepository{db: db, taxonomy: taxonomy}
}

func (repository *PostgresRepository) columns() string {
	return strings.Join(repository.taxonomy.Table.Columns(), ", ")
}

func scanTerms(rows pgx.Rows) ([]*Term, error) {
	defer rows.Close()

	terms := make([]*Term, 0)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_term")
		}
		terms = append(terms, term)
	}
	return terms, dberr.Wrap(rows.Err(), "iterate_terms")
}

/*
List retrieves every term of the taxonomy ordered by name.

Returns:
  - []*Term: never nil
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Term, error) {
	t := repository.taxonomy.Table
	statement := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, repository.columns(), t.Table, t.Name)

	rows, err := repository.db.Query(context, statement)
	if err != nil {
		return nil, dberr.Wrap(err, "list_terms")
	}
	return scanTerms(rows)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Term, error) {
	t := repository.taxonomy.Table
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, repository.columns(), t.Table, t.Slug)

	term := &Term{}
	err := repository.db.QueryRow(context, statement, slug).Scan(&term.ID, &term.Name, &term.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(repository.taxonomy.Resource)
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_term")
	}
	return term, nil
}

func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]*Term, error) {
	t := repository.taxonomy.Table
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`, repository.columns(), t.Table, t.Slug)

	rows, err := repository.db.Query(context, statement, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "find_terms")
	}
	return scanTerms(rows)
}

// Create inserts the term; the unique slug constraint turns a duplicate into CONFLICT.
func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	t := repository.taxonomy.Table
	statement := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`, t.Table, t.Name, t.Slug, t.ID)

	err := repository.db.QueryRow(context, statement, term.Name, term.Slug).Scan(&term.ID)
	if dberr.IsUniqueViolation(err, t.UniqueSlug) {
		return apperr.Conflict(repository.taxonomy.Resource + " with this slug already exists").WithCause(err)
	}
	return dberr.Wrap(err, "create_term")
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	t := repository.taxonomy.Table
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.Slug)

	tag, err := repository.db.Exec(context, statement, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_term")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.taxonomy.Resource)
	}
	return nil
}
