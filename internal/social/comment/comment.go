// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment is the ownership-scoped gateway for comments on reviews.

A comment is always addressed through its title and review. The review must
exist and belong to that title; otherwise the comment is NOT_FOUND. The author
may edit or delete a comment, and so may moderators and admins.
*/
package comment

import (
	"context"
	"time"
)

// Comment is a reply to a review.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"-"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	PubDate   time.Time `json:"pub_date"`
	UpdatedAt time.Time `json:"-"`
}

// FieldText identifies the comment body in validation errors.
const FieldText = "text"

// ReviewLocator checks that a review exists under a title. Satisfied by [*review.Service].
type ReviewLocator interface {
	Locate(context context.Context, titleID, reviewID int64) error
}

// Repository persists comments.
type Repository interface {
	// Create inserts the comment with its PubDate and UpdatedAt and sets ID.
	Create(context context.Context, comment *Comment) error

	// FindByID returns the comment only if it belongs to reviewID.
	FindByID(context context.Context, reviewID, id int64) (*Comment, error)

	// ListByReview returns the review's comments, oldest first.
	ListByReview(context context.Context, reviewID int64) ([]*Comment, error)

	// Update writes Text and UpdatedAt. PubDate and author never change.
	Update(context context.Context, comment *Comment) error

	Delete(context context.Context, id int64) error
}
