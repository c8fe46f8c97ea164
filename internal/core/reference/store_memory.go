// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] used by tests and tooling.
type MemoryRepository struct {
	mu       sync.Mutex
	taxonomy Taxonomy
	nextID   int64
	terms    map[string]Term
}

// NewMemoryRepository returns an empty repository for the taxonomy.
func NewMemoryRepository(taxonomy Taxonomy) *MemoryRepository {
	return &MemoryRepository{taxonomy: taxonomy, terms: make(map[string]Term)}
}

func (repository *MemoryRepository) List(_ context.Context) ([]*Term, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	terms := make([]*Term, 0, len(repository.terms))
	for _, term := range repository.terms {
		copied := term
		terms = append(terms, &copied)
	}
	slices.SortFunc(terms, func(a, b *Term) int { return strings.Compare(a.Name, b.Name) })
	return terms, nil
}

func (repository *MemoryRepository) FindBySlug(_ context.Context, slug string) (*Term, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	term, ok := repository.terms[slug]
	if !ok {
		return nil, apperr.NotFound(repository.taxonomy.Resource)
	}
	return &term, nil
}

func (repository *MemoryRepository) FindBySlugs(_ context.Context, slugs []string) ([]*Term, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	terms := make([]*Term, 0, len(slugs))
	for _, slug := range slugs {
		if term, ok := repository.terms[slug]; ok {
			terms = append(terms, &term)
		}
	}
	return terms, nil
}

func (repository *MemoryRepository) Create(_ context.Context, term *Term) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.terms[term.Slug]; taken {
		return apperr.Conflict(repository.taxonomy.Resource + " with this slug already exists")
	}
	repository.nextID++
	term.ID = repository.nextID
	repository.terms[term.Slug] = *term
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, slug string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.terms[slug]; !ok {
		return apperr.NotFound(repository.taxonomy.Resource)
	}
	delete(repository.terms, slug)
	return nil
}
