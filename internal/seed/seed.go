// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package seed loads a YAML fixture into the catalogue and the identity store.

Loading is idempotent: users, categories and genres that already exist are
skipped on CONFLICT, and a title is skipped when one with the same name and
year is already present. The first admin is bootstrapped this way, since no
HTTP path can grant a role without an existing admin.
*/
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/internal/users/account"
)

// # Fixture Schema

type Fixture struct {
	Users      []User  `yaml:"users"`
	Categories []Term  `yaml:"categories"`
	Genres     []Term  `yaml:"genres"`
	Titles     []Title `yaml:"titles"`
}

type User struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Bio       string `yaml:"bio"`
	Role      string `yaml:"role"`
}

type Term struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// Title references its category and genres by slug.
type Title struct {
	Name        string   `yaml:"name"`
	Year        int      `yaml:"year"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Genres      []string `yaml:"genre"`
}

// Load reads and parses the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture document. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	fixture := &Fixture{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(fixture); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("seed: parse fixture: %w", err)
	}
	return fixture, nil
}

// # Loading

// Targets are the services a fixture is written through.
type Targets struct {
	Accounts   *account.Service
	Categories *reference.Service
	Genres     *reference.Service
	Titles     *title.Service
}

// Report counts what a run created and skipped.
type Report struct {
	Created int
	Skipped int
}

// Operator is the actor fixtures are written as.
var Operator = policy.Actor{ID: "seed", Username: "seed", Role: sec.RoleAdmin}

/*
Apply writes the fixture through the domain services, so every record passes
the same validation as an API request.

Returns:
  - Report: created and skipped counts across all sections
  - error: the first failure other than an already-present record
*/
func Apply(context context.Context, targets Targets, fixture *Fixture, logger *slog.Logger) (Report, error) {
	var report Report

	for _, user := range fixture.Users {
		_, err := targets.Accounts.Create(context, Operator, account.CreateInput(user))
		if err := report.record(err); err != nil {
			return report, fmt.Errorf("seed: user %q: %w", user.Username, err)
		}
	}

	for _, section := range []struct {
		service *reference.Service
		terms   []Term
	}{
		{targets.Categories, fixture.Categories},
		{targets.Genres, fixture.Genres},
	} {
		for _, term := range section.terms {
			_, err := section.service.Create(context, Operator, reference.CreateInput(term))
			if err := report.record(err); err != nil {
				return report, fmt.Errorf("seed: %s %q: %w", section.service.Taxonomy().Kind, term.Name, err)
			}
		}
	}

	existing, err := titleKeys(context, targets.Titles)
	if err != nil {
		return report, err
	}
	for _, entry := range fixture.Titles {
		key := titleKey{entry.Name, entry.Year}
		if existing[key] {
			report.Skipped++
			continue
		}

		_, err := targets.Titles.Create(context, Operator, title.CreateInput(entry))
		if err != nil {
			return report, fmt.Errorf("seed: title %q: %w", entry.Name, err)
		}
		existing[key] = true
		report.Created++
	}

	logger.InfoContext(context, "seed_applied",
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (report *Report) record(err error) error {
	switch {
	case err == nil:
		report.Created++
	case apperr.IsConflict(err):
		report.Skipped++
	default:
		return err
	}
	return nil
}

type titleKey struct {
	name string
	year int
}

func titleKeys(context context.Context, titles *title.Service) (map[titleKey]bool, error) {
	views, err := titles.List(context)
	if err != nil {
		return nil, fmt.Errorf("seed: list titles: %w", err)
	}

	keys := make(map[titleKey]bool, len(views))
	for _, view := range views {
		keys[titleKey{view.Name, view.Year}] = true
	}
	return keys, nil
}
