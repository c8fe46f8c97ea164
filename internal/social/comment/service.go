// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/clock"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/policy"
)

// Service is the comment gateway.
type Service struct {
	repository Repository
	reviews    ReviewLocator
	clock      clock.Clock
	logger     *slog.Logger
}

// NewService constructs a new comment [Service].
func NewService(repository Repository, reviews ReviewLocator, c clock.Clock, logger *slog.Logger) *Service {
	return &Service{repository: repository, reviews: reviews, clock: c, logger: logger}
}

// List returns the comments of a review under a title.
func (service *Service) List(context context.Context, titleID, reviewID int64) ([]*Comment, error) {
	if err := service.reviews.Locate(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.ListByReview(context, reviewID)
}

// Get returns one comment.
func (service *Service) Get(context context.Context, titleID, reviewID, id int64) (*Comment, error) {
	if err := service.reviews.Locate(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, reviewID, id)
}

/*
Create adds the actor's comment to a review.

Returns:
  - error: UNAUTHORIZED, VALIDATION_ERROR or NOT_FOUND when the review is not under the title
*/
func (service *Service) Create(context context.Context, actor policy.Actor, titleID, reviewID int64, text string) (*Comment, error) {
	if err := policy.Check(actor, "", policy.OpCreate, policy.KindComment); err != nil {
		return nil, err
	}
	if err := checkText(text); err != nil {
		return nil, err
	}
	if err := service.reviews.Locate(context, titleID, reviewID); err != nil {
		return nil, err
	}

	now := service.clock.Now()
	comment := &Comment{ReviewID: reviewID, AuthorID: actor.ID, Author: actor.Username, Text: text, PubDate: now, UpdatedAt: now}
	if err := service.repository.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_create: %w", err)
	}

	service.logger.InfoContext(context, "comment_created",
		slog.String("author_id", actor.ID),
		slog.Int64("review_id", reviewID),
		slog.Int64("comment_id", comment.ID),
	)
	return comment, nil
}

// Update replaces the text of a comment. Author or moderator and above.
func (service *Service) Update(context context.Context, actor policy.Actor, titleID, reviewID, id int64, text string) (*Comment, error) {
	comment, err := service.load(context, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(actor, comment.AuthorID, policy.OpUpdate, policy.KindComment); err != nil {
		return nil, err
	}
	if err := checkText(text); err != nil {
		return nil, err
	}

	comment.Text = text
	comment.UpdatedAt = service.clock.Now()
	if err := service.repository.Update(context, comment); err != nil {
		return nil, fmt.Errorf("comment_update: %w", err)
	}

	service.logger.InfoContext(context, "comment_updated",
		slog.String("actor_id", actor.ID),
		slog.Int64("comment_id", comment.ID),
		slog.Bool("moderated", !actor.Owns(comment.AuthorID)),
	)
	return comment, nil
}

// Delete removes a comment. Author or moderator and above.
func (service *Service) Delete(context context.Context, actor policy.Actor, titleID, reviewID, id int64) error {
	comment, err := service.load(context, titleID, reviewID, id)
	if err != nil {
		return err
	}
	if err := policy.Check(actor, comment.AuthorID, policy.OpDelete, policy.KindComment); err != nil {
		return err
	}

	if err := service.repository.Delete(context, comment.ID); err != nil {
		return fmt.Errorf("comment_delete: %w", err)
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.String("actor_id", actor.ID),
		slog.Int64("comment_id", comment.ID),
		slog.Bool("moderated", !actor.Owns(comment.AuthorID)),
	)
	return nil
}

func (service *Service) load(context context.Context, titleID, reviewID, id int64) (*Comment, error) {
	if err := service.reviews.Locate(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, reviewID, id)
}

func checkText(text string) error {
	return (&validate.Validator{}).Required(FieldText, text).Err()
}
