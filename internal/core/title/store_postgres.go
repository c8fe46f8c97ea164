// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// PostgresRepository implements [Repository] on core.title and core.titlegenre.
type PostgresRepository struct {
	db postgres.TxBeginner
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.TxBeginner) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectTitle reads a title with its optional category in one row.
var selectTitle = fmt.Sprintf(`
	SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
	       c.%s, c.%s, c.%s
	FROM %s t
	LEFT JOIN %s c ON c.%s = t.%s`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year,
	schema.CoreTitle.Description, schema.CoreTitle.CreatedAt, schema.CoreTitle.UpdatedAt,
	schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreTitle.Table, schema.CoreCategory.Table,
	schema.CoreCategory.ID, schema.CoreTitle.CategoryID,
)

func scanTitle(row pgx.Row) (*Title, error) {
	title := &Title{Genres: []*reference.Term{}}

	var (
		categoryID   *int64
		categoryName *string
		categorySlug *string
	)
	err := row.Scan(
		&title.ID, &title.Name, &title.Year, &title.Description, &title.CreatedAt, &title.UpdatedAt,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		title.Category = &reference.Term{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	return title, nil
}

/*
List retrieves every title with category and genres.

Description: Titles and their genre links are fetched with two queries and
stitched together in memory.
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Title, error) {
	query := fmt.Sprintf(`%s ORDER BY t.%s ASC, t.%s ASC`, selectTitle, schema.CoreTitle.Name, schema.CoreTitle.ID)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_titles")
	}
	rows.Close()

	if err := repository.loadGenres(context, titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`%s WHERE t.%s = $1`, selectTitle, schema.CoreTitle.ID)

	title, err := scanTitle(repository.db.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Title")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_title")
	}

	if err := repository.loadGenres(context, []*Title{title}); err != nil {
		return nil, err
	}
	return title, nil
}

// loadGenres fills Genres on every title from one join query.
func (repository *PostgresRepository) loadGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	byID := make(map[int64]*Title, len(titles))
	for _, title := range titles {
		byID[title.ID] = title
	}

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		schema.CoreTitleGenre.TitleID, schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug,
		schema.CoreTitleGenre.Table, schema.CoreGenre.Table,
		schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
		schema.CoreTitleGenre.TitleID, schema.CoreGenre.Name,
	)

	ids := slice.Map(titles, func(t *Title) int64 { return t.ID })
	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "list_title_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		genre := &reference.Term{}
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if title, ok := byID[titleID]; ok {
			title.Genres = append(title.Genres, genre)
		}
	}
	return dberr.Wrap(rows.Err(), "list_title_genres")
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return dberr.Wrap(err, "title_exists")
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

/*
Create inserts the title row and its genre links in one transaction.

Returns:
  - error: NOT_FOUND when a referenced category or genre vanished meanwhile
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	t := schema.CoreTitle
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $5) RETURNING %s`,
		t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.CreatedAt, t.UpdatedAt, t.ID)

	now := time.Now().UTC()
	title.CreatedAt, title.UpdatedAt = now, now

	return postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query, title.Name, title.Year, title.Description, categoryID(title), now).Scan(&title.ID)
		if err != nil {
			return dberr.Wrap(err, "create_title")
		}
		return linkGenres(context, tx, title)
	})
}

// Update rewrites the title row and replaces its genre links in one transaction.
func (repository *PostgresRepository) Update(context context.Context, title *Title) error {
	t := schema.CoreTitle
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1`,
		t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.UpdatedAt, t.ID)
	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID)

	title.UpdatedAt = time.Now().UTC()

	return postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(context, query, title.ID, title.Name, title.Year, title.Description, categoryID(title), title.UpdatedAt)
		if err != nil {
			return dberr.Wrap(err, "update_title")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Title")
		}

		if _, err := tx.Exec(context, unlink, title.ID); err != nil {
			return dberr.Wrap(err, "unlink_title_genres")
		}
		return linkGenres(context, tx, title)
	})
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}
	return nil
}

func linkGenres(context context.Context, tx pgx.Tx, title *Title) error {
	if len(title.Genres) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
		schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID, schema.CoreTitleGenre.GenreID)

	genreIDs := slice.Map(title.Genres, func(g *reference.Term) int64 { return g.ID })
	if _, err := tx.Exec(context, query, title.ID, genreIDs); err != nil {
		return dberr.Wrap(err, "link_title_genres")
	}
	return nil
}

func categoryID(title *Title) *int64 {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}
