// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the taxonomies titles are filed under.

Categories and genres have the same shape, a name and a unique slug, and the
same rules: anyone may list them, only admins may create or delete them, and
clients always reference them by slug. One [Service] instance serves each
taxonomy; the [Taxonomy] value tells it which one it is.

Deleting a category leaves its titles uncategorised. Deleting a genre removes
it from every title.
*/
package reference

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/policy"
)

// # Domain Entities

// Term is one category or genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Taxonomy describes which kind of term a service or store handles.
type Taxonomy struct {
	Kind     policy.Kind
	Resource string
	Table    schema.CoreCategoryTable
}

var (
	Categories = Taxonomy{Kind: policy.KindCategory, Resource: "Category", Table: schema.CoreCategory}
	Genres     = Taxonomy{Kind: policy.KindGenre, Resource: "Genre", Table: schema.CoreGenre}
)

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"
)

// MaxNameLength bounds Term.Name.
const MaxNameLength = 256

// # Repository Contracts

// Repository persists the terms of one taxonomy.
type Repository interface {
	// List returns every term ordered by name.
	List(context context.Context) ([]*Term, error)

	FindBySlug(context context.Context, slug string) (*Term, error)

	// FindBySlugs returns the terms matching slugs in no particular order.
	// Unknown slugs are simply absent from the result.
	FindBySlugs(context context.Context, slugs []string) ([]*Term, error)

	// Create inserts the term and sets its ID. A taken slug is CONFLICT.
	Create(context context.Context, term *Term) error

	Delete(context context.Context, slug string) error
}
