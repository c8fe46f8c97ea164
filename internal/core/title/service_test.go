// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

var (
	admin = policy.Actor{ID: "admin-id", Username: "root", Role: sec.RoleAdmin}
	user  = policy.Actor{ID: "user-id", Username: "critic", Role: sec.RoleUser}
)

// stubRatings serves fixed ratings.
type stubRatings struct {
	ratings map[int64]float64
	err     error
}

func (s stubRatings) RatingFor(_ context.Context, id int64) (*float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if r, ok := s.ratings[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s stubRatings) RatingsFor(_ context.Context, _ []int64) (map[int64]float64, error) {
	return s.ratings, s.err
}

func newService(t *testing.T, ratings title.RatingSource) *title.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	categories := reference.NewService(reference.NewMemoryRepository(reference.Categories), reference.Categories, logger)
	genres := reference.NewService(reference.NewMemoryRepository(reference.Genres), reference.Genres, logger)

	for _, name := range []string{"Film", "Book"} {
		_, err := categories.Create(ctx, admin, reference.CreateInput{Name: name})
		require.NoError(t, err)
	}
	for _, name := range []string{"Drama", "Noir", "Comedy"} {
		_, err := genres.Create(ctx, admin, reference.CreateInput{Name: name})
		require.NoError(t, err)
	}

	clk := clock.NewFixed(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	return title.NewService(title.NewMemoryRepository(), categories, genres, ratings, clk, logger)
}

func TestCreate(t *testing.T) {
	service := newService(t, title.NoRatings{})
	ctx := context.Background()

	view, err := service.Create(ctx, admin, title.CreateInput{
		Name:     "The Third Man",
		Year:     1949,
		Category: "film",
		Genres:   []string{"noir", "drama"},
	})
	require.NoError(t, err)

	assert.NotZero(t, view.ID)
	assert.Nil(t, view.Rating)
	require.NotNil(t, view.Category)
	assert.Equal(t, "film", view.Category.Slug)
	require.Len(t, view.Genres, 2)
	assert.Equal(t, "noir", view.Genres[0].Slug)
}

/*
TestCreate_Validation covers the year bound and slug references.
*/
func TestCreate_Validation(t *testing.T) {
	service := newService(t, title.NoRatings{})
	ctx := context.Background()

	tests := []struct {
		name    string
		input   title.CreateInput
		field   string
		message string
	}{
		{"next_year", title.CreateInput{Name: "Future", Year: 2027, Category: "film"}, title.FieldYear, ""},
		{"no_name", title.CreateInput{Year: 2000, Category: "film"}, title.FieldName, ""},
		{"no_category", title.CreateInput{Name: "X", Year: 2000}, title.FieldCategory, "is required"},
		{"unknown_category", title.CreateInput{Name: "X", Year: 2000, Category: "opera"}, title.FieldCategory, "Category not found"},
		{"unknown_genre", title.CreateInput{Name: "X", Year: 2000, Category: "film", Genres: []string{"drama", "western"}}, title.FieldGenre, `Genre "western" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, admin, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae, "got %v", err)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)
			if tt.message != "" {
				assert.Equal(t, tt.message, ae.Details[0].Message)
			}
		})
	}

	// The current year itself is accepted.
	_, err := service.Create(ctx, admin, title.CreateInput{Name: "Now", Year: 2026, Category: "film"})
	assert.NoError(t, err)
}

func TestWrites_AdminOnly(t *testing.T) {
	service := newService(t, title.NoRatings{})
	ctx := context.Background()

	_, err := service.Create(ctx, user, title.CreateInput{Name: "X", Year: 2000, Category: "film"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.Create(ctx, policy.Anonymous, title.CreateInput{Name: "X", Year: 2000, Category: "film"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	view, err := service.Create(ctx, admin, title.CreateInput{Name: "X", Year: 2000, Category: "film"})
	require.NoError(t, err)

	_, err = service.Update(ctx, user, view.ID, title.UpdateInput{Name: pointer.To("Y")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	// Existence is not revealed to non-admins.
	_, err = service.Update(ctx, user, 9999, title.UpdateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	assert.True(t, apperr.HasCode(service.Delete(ctx, user, view.ID), apperr.CodeForbidden))
}

func TestUpdate(t *testing.T) {
	service := newService(t, stubRatings{ratings: map[int64]float64{1: 7}})
	ctx := context.Background()

	view, err := service.Create(ctx, admin, title.CreateInput{Name: "Heat", Year: 1995, Category: "film", Genres: []string{"drama"}})
	require.NoError(t, err)

	updated, err := service.Update(ctx, admin, view.ID, title.UpdateInput{
		Description: pointer.To("Crime epic"),
		Category:    pointer.To("book"),
		Genres:      &[]string{"noir", "comedy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Heat", updated.Name)
	assert.Equal(t, "Crime epic", updated.Description)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "book", updated.Category.Slug)
	assert.Len(t, updated.Genres, 2)
	require.NotNil(t, updated.Rating)
	assert.InDelta(t, 7.0, *updated.Rating, 1e-9)

	_, err = service.Update(ctx, admin, view.ID, title.UpdateInput{Year: pointer.To(2030)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// A category can be replaced but not blanked.
	_, err = service.Update(ctx, admin, view.ID, title.UpdateInput{Category: pointer.To(" ")})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.NotEmpty(t, ae.Details)
	assert.Equal(t, title.FieldCategory, ae.Details[0].Field)

	stored, err := service.TitleWithRating(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Category)
	assert.Equal(t, "book", stored.Category.Slug)

	_, err = service.Update(ctx, admin, 9999, title.UpdateInput{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestReads(t *testing.T) {
	ratings := stubRatings{ratings: map[int64]float64{1: 7}}
	service := newService(t, ratings)
	ctx := context.Background()

	for _, name := range []string{"Rated", "Unrated"} {
		_, err := service.Create(ctx, admin, title.CreateInput{Name: name, Year: 2001, Category: "book"})
		require.NoError(t, err)
	}

	views, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Rating)
	assert.InDelta(t, 7.0, *views[0].Rating, 1e-9)
	assert.Nil(t, views[1].Rating)

	view, err := service.TitleWithRating(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Unrated", view.Name)
	assert.Nil(t, view.Rating)

	_, err = service.TitleWithRating(ctx, 42)
	assert.True(t, apperr.IsNotFound(err))

	assert.NoError(t, service.Ensure(ctx, 1))
	assert.True(t, apperr.IsNotFound(service.Ensure(ctx, 42)))

	require.NoError(t, service.Delete(ctx, admin, 1))
	assert.True(t, apperr.IsNotFound(service.Ensure(ctx, 1)))
}

func TestTitleWithRating_RatingFailure(t *testing.T) {
	boom := errors.New("ratings unavailable")
	service := newService(t, stubRatings{err: boom})
	ctx := context.Background()

	view, err := service.Create(ctx, admin, title.CreateInput{Name: "X", Year: 2000, Category: "film"})
	require.NoError(t, err)

	_, err = service.TitleWithRating(ctx, view.ID)
	assert.ErrorIs(t, err, boom)
}
