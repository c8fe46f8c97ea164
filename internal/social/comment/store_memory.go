// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] for tests and tooling.
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]Comment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{comments: make(map[int64]Comment)}
}

func (repository *MemoryRepository) Create(_ context.Context, comment *Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.nextID++
	comment.ID = repository.nextID
	repository.comments[comment.ID] = *comment
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, reviewID, id int64) (*Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	comment, ok := repository.comments[id]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return &comment, nil
}

func (repository *MemoryRepository) ListByReview(_ context.Context, reviewID int64) ([]*Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	comments := make([]*Comment, 0)
	for _, comment := range repository.comments {
		if comment.ReviewID == reviewID {
			copied := comment
			comments = append(comments, &copied)
		}
	}
	slices.SortFunc(comments, func(a, b *Comment) int { return int(a.ID - b.ID) })
	return comments, nil
}

func (repository *MemoryRepository) Update(_ context.Context, comment *Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.comments[comment.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	stored.Text = comment.Text
	stored.UpdatedAt = comment.UpdatedAt
	repository.comments[comment.ID] = stored
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repository.comments, id)
	return nil
}
