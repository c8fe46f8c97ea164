// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/taibuivan/yamdb/internal/core/title"
)

var _ title.RatingSource = (*Ratings)(nil)

// Mean is the arithmetic mean of scores, or nil for none.
func Mean(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}
	mean := float64(sum) / float64(len(scores))
	return &mean
}

// Ratings computes title ratings from stored review scores at read time.
// It needs only the repository, so the title catalogue can hold one
// before the review gateway exists.
type Ratings struct {
	repository Repository
}

// NewRatings returns the rating reader over repository.
func NewRatings(repository Repository) *Ratings {
	return &Ratings{repository: repository}
}

// RatingFor returns the current rating of a title, or nil when it has no reviews.
func (ratings *Ratings) RatingFor(context context.Context, titleID int64) (*float64, error) {
	rating, err := ratings.repository.MeanScore(context, titleID)
	if err != nil {
		return nil, fmt.Errorf("review_rating: %w", err)
	}
	return rating, nil
}

// RatingsFor returns the rating of every listed title that has reviews.
// Titles without reviews are absent from the map.
func (ratings *Ratings) RatingsFor(context context.Context, titleIDs []int64) (map[int64]float64, error) {
	if len(titleIDs) == 0 {
		return map[int64]float64{}, nil
	}

	means, err := ratings.repository.MeanScores(context, titleIDs)
	if err != nil {
		return nil, fmt.Errorf("review_ratings: %w", err)
	}
	return means, nil
}
