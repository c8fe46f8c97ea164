// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreCategoryTable represents the 'core.category' table.
// core.genre shares its shape; see [CoreGenre].
type CoreCategoryTable struct {
	Table string
	ID    string
	Name  string
	Slug  string

	UniqueSlug string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = CoreCategoryTable{
	Table:      "core.category",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_category_slug",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = CoreCategoryTable{
	Table:      "core.genre",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_genre_slug",
}

func (t CoreCategoryTable) Columns() []string { return []string{t.ID, t.Name, t.Slug} }
