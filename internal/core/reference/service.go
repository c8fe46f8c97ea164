// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/pkg/slice"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// # Service Layer

// Service orchestrates the rules of one taxonomy.
type Service struct {
	repository Repository
	taxonomy   Taxonomy
	logger     *slog.Logger
}

// NewService constructs a [Service] for the given taxonomy.
func NewService(repository Repository, taxonomy Taxonomy, logger *slog.Logger) *Service {
	return &Service{repository: repository, taxonomy: taxonomy, logger: logger}
}

// Taxonomy returns the taxonomy this service manages.
func (service *Service) Taxonomy() Taxonomy { return service.taxonomy }

// List returns every term. Open to anyone.
func (service *Service) List(context context.Context) ([]*Term, error) {
	return service.repository.List(context)
}

// CreateInput is a new term. An empty Slug is derived from Name.
type CreateInput struct {
	Name string
	Slug string
}

/*
Create adds a term to the taxonomy. Admin only.

Returns:
  - *Term: the stored term
  - error: UNAUTHORIZED/FORBIDDEN, VALIDATION_ERROR or CONFLICT on a taken slug
*/
func (service *Service) Create(context context.Context, actor policy.Actor, input CreateInput) (*Term, error) {
	if err := policy.Check(actor, "", policy.OpCreate, service.taxonomy.Kind); err != nil {
		return nil, err
	}

	term := &Term{Name: strings.TrimSpace(input.Name), Slug: strings.TrimSpace(input.Slug)}
	if term.Slug == "" {
		term.Slug = slug.From(term.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, term.Name).
		MaxLen(FieldName, term.Name, MaxNameLength).
		Required(FieldSlug, term.Slug).
		MaxLen(FieldSlug, term.Slug, slug.MaxLength).
		Slug(FieldSlug, term.Slug)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, term); err != nil {
		return nil, fmt.Errorf("%s_create: %w", service.taxonomy.Kind, err)
	}

	service.logger.InfoContext(context, string(service.taxonomy.Kind)+"_created",
		slog.String("actor_id", actor.ID),
		slog.String("slug", term.Slug),
	)
	return term, nil
}

// Delete removes the term with the given slug. Admin only.
func (service *Service) Delete(context context.Context, actor policy.Actor, slug string) error {
	if err := policy.Check(actor, "", policy.OpDelete, service.taxonomy.Kind); err != nil {
		return err
	}

	if err := service.repository.Delete(context, slug); err != nil {
		return fmt.Errorf("%s_delete: %w", service.taxonomy.Kind, err)
	}

	service.logger.InfoContext(context, string(service.taxonomy.Kind)+"_deleted",
		slog.String("actor_id", actor.ID),
		slog.String("slug", slug),
	)
	return nil
}

// # Resolution

// Resolve returns the term with the given slug, or NOT_FOUND.
func (service *Service) Resolve(context context.Context, slug string) (*Term, error) {
	return service.repository.FindBySlug(context, slug)
}

/*
ResolveAll maps every slug to its term, keeping the input order and dropping
duplicates. Any unknown slug fails the whole call with NOT_FOUND naming it.
*/
func (service *Service) ResolveAll(context context.Context, slugs []string) ([]*Term, error) {
	slugs = slice.Unique(slugs)
	if len(slugs) == 0 {
		return []*Term{}, nil
	}

	found, err := service.repository.FindBySlugs(context, slugs)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]*Term, len(found))
	for _, term := range found {
		bySlug[term.Slug] = term
	}

	terms := make([]*Term, 0, len(slugs))
	for _, s := range slugs {
		term, ok := bySlug[s]
		if !ok {
			return nil, apperr.NotFound(fmt.Sprintf("%s %q", service.taxonomy.Resource, s))
		}
		terms = append(terms, term)
	}
	return terms, nil
}
