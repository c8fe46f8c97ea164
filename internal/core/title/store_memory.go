// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] used by tests and tooling.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	titles map[int64]Title
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{titles: make(map[int64]Title)}
}

func clone(title Title) *Title {
	title.Genres = slices.Clone(title.Genres)
	return &title
}

func (repository *MemoryRepository) List(_ context.Context) ([]*Title, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	titles := make([]*Title, 0, len(repository.titles))
	for _, title := range repository.titles {
		titles = append(titles, clone(title))
	}
	slices.SortFunc(titles, func(a, b *Title) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return titles, nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id int64) (*Title, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	title, ok := repository.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return clone(title), nil
}

func (repository *MemoryRepository) Exists(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	return nil
}

func (repository *MemoryRepository) Create(_ context.Context, title *Title) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.nextID++
	title.ID = repository.nextID
	title.CreatedAt = time.Now().UTC()
	title.UpdatedAt = title.CreatedAt
	repository.titles[title.ID] = *clone(*title)
	return nil
}

func (repository *MemoryRepository) Update(_ context.Context, title *Title) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.titles[title.ID]; !ok {
		return apperr.NotFound("Title")
	}
	title.UpdatedAt = time.Now().UTC()
	repository.titles[title.ID] = *clone(*title)
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(repository.titles, id)
	return nil
}
