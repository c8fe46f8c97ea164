// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the catalogue of reviewable works.

A title belongs to at most one category and any number of genres, both
referenced by slug on the wire. Its rating is not stored: every read asks a
[RatingSource] for the current mean of the title's review scores, so the value
can never drift from the reviews themselves.

# Core Responsibility

  - Catalogue: admin-only create, update and delete of titles.
  - Discovery: public list and retrieve, each title paired with its rating.
  - Integrity: release years never lie in the future of the injected clock.
*/
package title

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/core/reference"
)

// # Domain Entities

// Title is a catalogued work.
type Title struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description"`
	Category    *reference.Term   `json:"category"`
	Genres      []*reference.Term `json:"genre"`
	CreatedAt   time.Time         `json:"-"`
	UpdatedAt   time.Time         `json:"-"`
}

// View is a title as clients read it, with its derived rating.
// Rating is null when the title has no reviews.
type View struct {
	Title
	Rating *float64 `json:"rating"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)

// MaxNameLength bounds Title.Name.
const MaxNameLength = 256

// # Collaborator Contracts

// RatingSource computes ratings at read time.
type RatingSource interface {
	// RatingFor returns the mean score of the title's reviews, or nil without reviews.
	RatingFor(context context.Context, titleID int64) (*float64, error)

	// RatingsFor returns the mean score of every listed title that has reviews.
	RatingsFor(context context.Context, titleIDs []int64) (map[int64]float64, error)
}

// TermResolver resolves slugs of one taxonomy. Satisfied by [*reference.Service].
type TermResolver interface {
	Resolve(context context.Context, slug string) (*reference.Term, error)
	ResolveAll(context context.Context, slugs []string) ([]*reference.Term, error)
}

// # Repository Contracts

// Repository persists titles together with their genre links.
type Repository interface {
	// List returns every title ordered by name, with category and genres loaded.
	List(context context.Context) ([]*Title, error)

	FindByID(context context.Context, id int64) (*Title, error)

	// Exists reports NOT_FOUND when no title has the id.
	Exists(context context.Context, id int64) error

	// Create inserts the title and its genre links atomically and sets its ID.
	Create(context context.Context, title *Title) error

	// Update replaces the title's fields and genre links atomically.
	Update(context context.Context, title *Title) error

	// Delete removes the title; its reviews and comments cascade.
	Delete(context context.Context, id int64) error
}
