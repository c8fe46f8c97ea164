// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] with the same uniqueness
// rules as the PostgreSQL one. It backs service tests and local tooling.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]User
	now   func() time.Time
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User), now: time.Now}
}

// WithClock overrides the timestamp source.
func (repository *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	repository.now = now
	return repository
}

func (repository *MemoryRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.checkUnique(user); err != nil {
		return err
	}

	now := repository.now().UTC().Truncate(time.Microsecond)
	user.CreatedAt, user.UpdatedAt = now, now
	repository.users[user.ID] = *user
	return nil
}

func (repository *MemoryRepository) checkUnique(user *User) error {
	for id, other := range repository.users {
		if id == user.ID {
			continue
		}
		if other.Username == user.Username {
			return apperr.Conflict("Username is already taken")
		}
		if other.Email == user.Email {
			return apperr.Conflict("Email is already registered to another user")
		}
	}
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	return repository.find(func(u User) bool { return u.ID == id })
}

func (repository *MemoryRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	return repository.find(func(u User) bool { return u.Username == username })
}

func (repository *MemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	return repository.find(func(u User) bool { return u.Email == email })
}

func (repository *MemoryRepository) find(match func(User) bool) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if match(user) {
			copied := user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *MemoryRepository) List(_ context.Context) ([]*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	users := make([]*User, 0, len(repository.users))
	for _, user := range repository.users {
		copied := user
		users = append(users, &copied)
	}
	slices.SortFunc(users, func(a, b *User) int { return strings.Compare(a.Username, b.Username) })
	return users, nil
}

func (repository *MemoryRepository) Update(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if err := repository.checkUnique(user); err != nil {
		return err
	}

	// Strictly increasing, so a state change is always observable.
	next := repository.now().UTC().Truncate(time.Microsecond)
	if !next.After(user.UpdatedAt) {
		next = user.UpdatedAt.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	user.UpdatedAt = next
	repository.users[user.ID] = *user
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repository.users, id)
	return nil
}
