// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table     string
	ID        string
	TitleID   string
	AuthorID  string
	Text      string
	Score     string
	PubDate   string
	UpdatedAt string

	// UniqueAuthorTitle enforces one review per (author, title).
	UniqueAuthorTitle string
	ForeignTitle      string
	ForeignAuthor     string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:     "social.review",
	ID:        "id",
	TitleID:   "titleid",
	AuthorID:  "authorid",
	Text:      "text",
	Score:     "score",
	PubDate:   "pubdate",
	UpdatedAt: "updatedat",

	UniqueAuthorTitle: "uq_review_author_title",
	ForeignTitle:      "fk_review_title",
	ForeignAuthor:     "fk_review_author",
}

func (t SocialReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate, t.UpdatedAt}
}
