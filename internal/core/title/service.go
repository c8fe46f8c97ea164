// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// # Service Layer

// Service orchestrates the business logic for the title catalogue.
type Service struct {
	repository Repository
	categories TermResolver
	genres     TermResolver
	ratings    RatingSource
	clock      clock.Clock
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(
	repository Repository,
	categories TermResolver,
	genres TermResolver,
	ratings RatingSource,
	clk clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository: repository,
		categories: categories,
		genres:     genres,
		ratings:    ratings,
		clock:      clk,
		logger:     logger,
	}
}

// # Reads

/*
List returns every title with its current rating.

Ratings are fetched in one query for the whole list.
*/
func (service *Service) List(context context.Context) ([]*View, error) {
	titles, err := service.repository.List(context)
	if err != nil {
		return nil, err
	}

	ids := slice.Map(titles, func(t *Title) int64 { return t.ID })
	ratings, err := service.ratings.RatingsFor(context, ids)
	if err != nil {
		return nil, fmt.Errorf("title_list_ratings: %w", err)
	}

	views := make([]*View, 0, len(titles))
	for _, t := range titles {
		view := &View{Title: *t}
		if rating, ok := ratings[t.ID]; ok {
			view.Rating = &rating
		}
		views = append(views, view)
	}
	return views, nil
}

/*
TitleWithRating loads a title and its rating concurrently.

Returns:
  - *View: the title with its rating, nil rating without reviews
  - error: NOT_FOUND or storage errors
*/
func (service *Service) TitleWithRating(context context.Context, id int64) (*View, error) {
	var (
		title  *Title
		rating *float64
	)

	group, groupContext := errgroup.WithContext(context)
	group.Go(func() error {
		var err error
		title, err = service.repository.FindByID(groupContext, id)
		return err
	})
	group.Go(func() error {
		var err error
		rating, err = service.ratings.RatingFor(groupContext, id)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &View{Title: *title, Rating: rating}, nil
}

// Ensure returns NOT_FOUND when no title has the id.
func (service *Service) Ensure(context context.Context, id int64) error {
	return service.repository.Exists(context, id)
}

// # Writes

// CreateInput is a new title. Category and genres are referenced by slug.
type CreateInput struct {
	Name        string
	Year        int
	Description string
	Category    string
	Genres      []string
}

// UpdateInput is a partial update; nil fields are left unchanged.
// An empty Category clears it.
type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

/*
Create adds a title to the catalogue. Admin only.

Returns:
  - *View: the stored title, without reviews so with a nil rating
  - error: UNAUTHORIZED/FORBIDDEN or VALIDATION_ERROR (including unknown slugs)
*/
func (service *Service) Create(context context.Context, actor policy.Actor, input CreateInput) (*View, error) {
	if err := policy.Check(actor, "", policy.OpCreate, policy.KindTitle); err != nil {
		return nil, err
	}

	title := &Title{
		Name:        strings.TrimSpace(input.Name),
		Year:        input.Year,
		Description: input.Description,
	}
	if err := service.checkFields(title); err != nil {
		return nil, err
	}
	if err := service.attach(context, title, &input.Category, &input.Genres); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, title); err != nil {
		return nil, fmt.Errorf("title_create: %w", err)
	}

	service.logger.InfoContext(context, "title_created",
		slog.String("actor_id", actor.ID),
		slog.Int64("title_id", title.ID),
	)
	return &View{Title: *title}, nil
}

/*
Update applies a partial update to a title. Admin only.

The policy check runs before the title is loaded, so non-admins never learn
whether an id exists.
*/
func (service *Service) Update(context context.Context, actor policy.Actor, id int64, input UpdateInput) (*View, error) {
	if err := policy.Check(actor, "", policy.OpUpdate, policy.KindTitle); err != nil {
		return nil, err
	}

	title, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = strings.TrimSpace(*input.Name)
	}
	title.Year = pointer.Or(input.Year, title.Year)
	title.Description = pointer.Or(input.Description, title.Description)
	if err := service.checkFields(title); err != nil {
		return nil, err
	}
	if err := service.attach(context, title, input.Category, input.Genres); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, title); err != nil {
		return nil, fmt.Errorf("title_update: %w", err)
	}

	service.logger.InfoContext(context, "title_updated",
		slog.String("actor_id", actor.ID),
		slog.Int64("title_id", title.ID),
	)
	return service.TitleWithRating(context, id)
}

// Delete removes a title with all its reviews and comments. Admin only.
func (service *Service) Delete(context context.Context, actor policy.Actor, id int64) error {
	if err := policy.Check(actor, "", policy.OpDelete, policy.KindTitle); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return fmt.Errorf("title_delete: %w", err)
	}

	service.logger.InfoContext(context, "title_deleted",
		slog.String("actor_id", actor.ID),
		slog.Int64("title_id", id),
	)
	return nil
}

// # Helpers

// checkFields validates the scalar fields against the current calendar year.
func (service *Service) checkFields(title *Title) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, title.Name).
		MaxLen(FieldName, title.Name, MaxNameLength).
		NotAfter(FieldYear, title.Year, clock.CurrentYear(service.clock))
	return validator.Err()
}

// attach resolves the referenced slugs onto title. Nil pointers leave the
// current value in place; a given category may not be blank. Unknown slugs
// are VALIDATION_ERROR on their field.
func (service *Service) attach(context context.Context, title *Title, category *string, genres *[]string) error {
	if category != nil {
		slug := strings.TrimSpace(*category)
		if slug == "" {
			return validate.RequiredError(FieldCategory, "is required")
		}
		term, err := service.categories.Resolve(context, slug)
		if err != nil {
			return asFieldError(err, FieldCategory)
		}
		title.Category = term
	}

	if genres != nil {
		terms, err := service.genres.ResolveAll(context, *genres)
		if err != nil {
			return asFieldError(err, FieldGenre)
		}
		title.Genres = terms
	}
	return nil
}

func asFieldError(err error, field string) error {
	if apperr.IsNotFound(err) {
		return validate.Invalid(field, err.Error())
	}
	return err
}

// # Ratings

// NoRatings is a [RatingSource] for a catalogue without reviews.
type NoRatings struct{}

func (NoRatings) RatingFor(context.Context, int64) (*float64, error) { return nil, nil }

func (NoRatings) RatingsFor(context.Context, []int64) (map[int64]float64, error) {
	return map[int64]float64{}, nil
}

var _ RatingSource = NoRatings{}
var _ TermResolver = (*reference.Service)(nil)
