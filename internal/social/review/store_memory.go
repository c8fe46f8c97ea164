// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] with the same uniqueness
// rule as the database. Used by tests and tooling.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]Review
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reviews: make(map[int64]Review)}
}

func (repository *MemoryRepository) Create(_ context.Context, review *Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.reviews {
		if existing.AuthorID == review.AuthorID && existing.TitleID == review.TitleID {
			return apperr.Conflict("You have already reviewed this title")
		}
	}

	repository.nextID++
	review.ID = repository.nextID
	repository.reviews[review.ID] = *review
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, titleID, id int64) (*Review, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	review, ok := repository.reviews[id]
	if !ok || review.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return &review, nil
}

func (repository *MemoryRepository) ListByTitle(_ context.Context, titleID int64) ([]*Review, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	reviews := make([]*Review, 0)
	for _, review := range repository.reviews {
		if review.TitleID == titleID {
			copied := review
			reviews = append(reviews, &copied)
		}
	}
	slices.SortFunc(reviews, func(a, b *Review) int { return int(a.ID - b.ID) })
	return reviews, nil
}

func (repository *MemoryRepository) Update(_ context.Context, review *Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.reviews[review.ID]
	if !ok {
		return apperr.NotFound("Review")
	}
	stored.Text = review.Text
	stored.Score = review.Score
	stored.UpdatedAt = review.UpdatedAt
	repository.reviews[review.ID] = stored
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.reviews[id]; !ok {
		return apperr.NotFound("Review")
	}
	delete(repository.reviews, id)
	return nil
}

func (repository *MemoryRepository) scores(titleID int64) []int {
	scores := make([]int, 0)
	for _, review := range repository.reviews {
		if review.TitleID == titleID {
			scores = append(scores, review.Score)
		}
	}
	return scores
}

func (repository *MemoryRepository) MeanScore(_ context.Context, titleID int64) (*float64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return Mean(repository.scores(titleID)), nil
}

func (repository *MemoryRepository) MeanScores(_ context.Context, titleIDs []int64) (map[int64]float64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	means := make(map[int64]float64, len(titleIDs))
	for _, id := range titleIDs {
		if mean := Mean(repository.scores(id)); mean != nil {
			means[id] = *mean
		}
	}
	return means, nil
}
