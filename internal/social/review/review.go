// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review is the ownership-scoped gateway for title reviews and the
engine behind title ratings.

Every user may review a title once. The (author, title) pair is unique in the
store itself, so two concurrent creates can never both succeed. Updates and
deletes load the review first and ask the policy engine with its author: the
author may always change their review, moderators and admins may change any.

A title's rating is the arithmetic mean of its current review scores. It is
computed on every read and is absent while the title has no reviews.
*/
package review

import (
	"context"
	"time"
)

// # Domain Entities

// Review is one user's scored opinion of a title.
type Review struct {
	ID        int64     `json:"id"`
	TitleID   int64     `json:"-"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	PubDate   time.Time `json:"pub_date"`
	UpdatedAt time.Time `json:"-"`
}

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
)

// # Limits

const (
	MinScore = 1
	MaxScore = 10
)

// # Collaborator Contracts

// TitleLookup reports whether a title exists. Satisfied by [*title.Service].
type TitleLookup interface {
	Ensure(context context.Context, id int64) error
}

// # Repository Contracts

// Repository persists reviews and aggregates their scores.
type Repository interface {
	// Create inserts the review with its PubDate and UpdatedAt and sets ID.
	// A second review by the same author for the same title is CONFLICT.
	Create(context context.Context, review *Review) error

	// FindByID returns the review only if it belongs to titleID.
	FindByID(context context.Context, titleID, id int64) (*Review, error)

	// ListByTitle returns the title's reviews, oldest first.
	ListByTitle(context context.Context, titleID int64) ([]*Review, error)

	// Update writes Text, Score and UpdatedAt. PubDate, author and title never change.
	Update(context context.Context, review *Review) error

	Delete(context context.Context, id int64) error

	// MeanScore returns the mean review score of the title, or nil without reviews.
	MeanScore(context context.Context, titleID int64) (*float64, error)

	// MeanScores returns the mean score of every listed title that has reviews.
	MeanScores(context context.Context, titleIDs []int64) (map[int64]float64, error)
}
