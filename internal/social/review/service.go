// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Service Layer

// Service is the review gateway. It also answers rating reads through [Ratings].
type Service struct {
	*Ratings

	repository Repository
	titles     TitleLookup
	clock      clock.Clock
	logger     *slog.Logger
}

// NewService constructs a new review [Service]. The clock stamps pub_date.
func NewService(repository Repository, titles TitleLookup, c clock.Clock, logger *slog.Logger) *Service {
	return &Service{Ratings: NewRatings(repository), repository: repository, titles: titles, clock: c, logger: logger}
}

// # Reads

// List returns the reviews of a title. NOT_FOUND when the title does not exist.
func (service *Service) List(context context.Context, titleID int64) ([]*Review, error) {
	if err := service.titles.Ensure(context, titleID); err != nil {
		return nil, err
	}
	return service.repository.ListByTitle(context, titleID)
}

// Get returns one review of a title.
func (service *Service) Get(context context.Context, titleID, id int64) (*Review, error) {
	return service.repository.FindByID(context, titleID, id)
}

// Locate returns NOT_FOUND unless review id exists and belongs to titleID.
func (service *Service) Locate(context context.Context, titleID, id int64) error {
	_, err := service.repository.FindByID(context, titleID, id)
	return err
}

// # Writes

// CreateInput is a new review.
type CreateInput struct {
	Text  string
	Score int
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Text  *string
	Score *int
}

/*
Create publishes the actor's review of a title.

Description: The uniqueness of (author, title) is decided by the store in the
same statement that inserts the row.

Returns:
  - *Review: the stored review with its author's username
  - error: UNAUTHORIZED, VALIDATION_ERROR, NOT_FOUND (title) or CONFLICT (already reviewed)
*/
func (service *Service) Create(context context.Context, actor policy.Actor, titleID int64, input CreateInput) (*Review, error) {
	if err := policy.Check(actor, "", policy.OpCreate, policy.KindReview); err != nil {
		return nil, err
	}
	if err := checkReview(input.Text, input.Score); err != nil {
		return nil, err
	}
	if err := service.titles.Ensure(context, titleID); err != nil {
		return nil, err
	}

	now := service.clock.Now()
	review := &Review{
		TitleID:   titleID,
		AuthorID:  actor.ID,
		Author:    actor.Username,
		Text:      input.Text,
		Score:     input.Score,
		PubDate:   now,
		UpdatedAt: now,
	}
	if err := service.repository.Create(context, review); err != nil {
		return nil, fmt.Errorf("review_create: %w", err)
	}

	service.logger.InfoContext(context, "review_created",
		slog.String("author_id", actor.ID),
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", review.ID),
		slog.Int("score", review.Score),
	)
	return review, nil
}

/*
Update changes the text and/or score of a review.

The review is loaded first so the policy engine sees its real author; nothing
is written unless it allows the change.
*/
func (service *Service) Update(context context.Context, actor policy.Actor, titleID, id int64, input UpdateInput) (*Review, error) {
	review, err := service.repository.FindByID(context, titleID, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(actor, review.AuthorID, policy.OpUpdate, policy.KindReview); err != nil {
		return nil, err
	}

	review.Text = pointer.Or(input.Text, review.Text)
	review.Score = pointer.Or(input.Score, review.Score)
	if err := checkReview(review.Text, review.Score); err != nil {
		return nil, err
	}

	review.UpdatedAt = service.clock.Now()
	if err := service.repository.Update(context, review); err != nil {
		return nil, fmt.Errorf("review_update: %w", err)
	}

	service.logger.InfoContext(context, "review_updated",
		slog.String("actor_id", actor.ID),
		slog.Int64("review_id", review.ID),
		slog.Bool("moderated", !actor.Owns(review.AuthorID)),
	)
	return review, nil
}

// Delete removes a review and its comments. Author or moderator and above.
func (service *Service) Delete(context context.Context, actor policy.Actor, titleID, id int64) error {
	review, err := service.repository.FindByID(context, titleID, id)
	if err != nil {
		return err
	}
	if err := policy.Check(actor, review.AuthorID, policy.OpDelete, policy.KindReview); err != nil {
		return err
	}

	if err := service.repository.Delete(context, review.ID); err != nil {
		return fmt.Errorf("review_delete: %w", err)
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.String("actor_id", actor.ID),
		slog.Int64("review_id", review.ID),
		slog.Bool("moderated", !actor.Owns(review.AuthorID)),
	)
	return nil
}

func checkReview(text string, score int) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, text).
		Range(FieldScore, score, MinScore, MaxScore)
	return validator.Err()
}
