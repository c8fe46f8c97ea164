// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/policy"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/slice"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Service Layer

// Service enforces identity rules on top of a [Repository].
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Signup Identity

/*
FindOrCreate resolves the (username, email) pair to a single account.

Description: An existing account is returned when both values point at it. A
new account with the default role is created when neither is taken. Any other
combination means the pair would mix two identities and is a CONFLICT.

Returns:
  - *User: the resolved account
  - bool: true when the account was created by this call
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) FindOrCreate(context context.Context, username, email string) (*User, bool, error) {
	if err := ValidateIdentity(username, email); err != nil {
		return nil, false, err
	}

	// A concurrent signup for the same pair can win the insert; the second pass
	// then resolves to the row it created.
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := service.resolve(context, username, email)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}

		user := &User{ID: uuid.New(), Username: username, Email: email, Role: sec.RoleUser}
		err = service.repository.Create(context, user)
		if err == nil {
			service.logger.InfoContext(context, "account_created", slog.String("user_id", user.ID), slog.String("username", username))
			return user, true, nil
		}
		if !apperr.IsConflict(err) {
			return nil, false, fmt.Errorf("account_find_or_create: %w", err)
		}
	}

	return nil, false, apperr.Conflict("Username or email is already in use")
}

func (service *Service) resolve(context context.Context, username, email string) (*User, error) {
	byName, err := optional(service.repository.FindByUsername(context, username))
	if err != nil {
		return nil, err
	}
	byEmail, err := optional(service.repository.FindByEmail(context, email))
	if err != nil {
		return nil, err
	}

	switch {
	case byName == nil && byEmail == nil:
		return nil, nil
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		return byName, nil
	case byEmail == nil:
		return nil, apperr.Conflict("Username is already taken")
	case byName == nil:
		return nil, apperr.Conflict("Email is already registered to another user")
	default:
		return nil, apperr.Conflict("Username and email belong to different users")
	}
}

// optional turns NOT_FOUND into a nil result.
func optional(user *User, err error) (*User, error) {
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	return user, err
}

// # Lookups

// FindByUsername returns the account with the given username.
func (service *Service) FindByUsername(context context.Context, username string) (*User, error) {
	return service.repository.FindByUsername(context, username)
}

// FindByID returns the account with the given id.
func (service *Service) FindByID(context context.Context, id string) (*User, error) {
	return service.repository.FindByID(context, id)
}

// # Role Management

/*
SetRole changes the role of the account named username.

Only an admin may call it; the check happens before the target is loaded.
*/
func (service *Service) SetRole(context context.Context, actor policy.Actor, username string, role sec.UserRole) (*User, error) {
	if err := requireAdmin(actor, "Only administrators can change roles"); err != nil {
		return nil, err
	}
	if _, err := parseRole(string(role)); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	previous := user.Role
	user.Role = role
	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_set_role: %w", err)
	}

	service.logRoleChange(context, actor, user, previous)
	return user, nil
}

func requireAdmin(actor policy.Actor, message string) error {
	if !actor.Authenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	if !actor.Role.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden(message)
	}
	return nil
}

func roleList() string {
	return strings.Join(slice.Map(sec.Roles, sec.UserRole.String), ", ")
}

// parseRole accepts only the assignable role names.
func parseRole(raw string) (sec.UserRole, error) {
	role, ok := sec.ParseRole(raw)
	if !ok {
		return "", validate.Invalid(FieldRole, "Must be one of: "+roleList())
	}
	return role, nil
}

func (service *Service) logRoleChange(context context.Context, actor policy.Actor, user *User, previous sec.UserRole) {
	service.logger.InfoContext(context, "role_changed",
		slog.String("actor_id", actor.ID),
		slog.String("user_id", user.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(user.Role)),
	)
}

// # Admin Management

// CreateInput holds the fields an admin may set on a new account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// List returns every account. Admin only.
func (service *Service) List(context context.Context, actor policy.Actor) ([]*User, error) {
	if err := policy.Check(actor, "", policy.OpList, policy.KindUser); err != nil {
		return nil, err
	}
	return service.repository.List(context)
}

// Get returns the account named username.
func (service *Service) Get(context context.Context, actor policy.Actor, username string) (*User, error) {
	return service.loadFor(context, actor, username, policy.OpRetrieve)
}

/*
Create registers an account on behalf of an admin, optionally with a role.
The new user still signs in through the confirmation-code flow.
*/
func (service *Service) Create(context context.Context, actor policy.Actor, input CreateInput) (*User, error) {
	if err := policy.Check(actor, "", policy.OpCreate, policy.KindUser); err != nil {
		return nil, err
	}

	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}
	role, err := parseRole(input.Role)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}
	if err := checkUser(user); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_create: %w", err)
	}

	service.logger.InfoContext(context, "account_created_by_admin",
		slog.String("actor_id", actor.ID),
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Update applies a partial update, including the role. Admin only.
func (service *Service) Update(context context.Context, actor policy.Actor, username string, input UpdateInput) (*User, error) {
	// The owner exception of the policy engine does not extend to this path.
	if err := requireAdmin(actor, "You do not have permission to manage users"); err != nil {
		return nil, err
	}

	user, err := service.loadFor(context, actor, username, policy.OpUpdate)
	if err != nil {
		return nil, err
	}

	previous := user.Role
	applyProfile(user, ProfileInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if input.Role != nil {
		role, err := parseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}

	if err := checkUser(user); err != nil {
		return nil, err
	}
	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_update: %w", err)
	}

	if user.Role != previous {
		service.logRoleChange(context, actor, user, previous)
	}
	return user, nil
}

// Delete removes the account named username; its reviews and comments cascade.
func (service *Service) Delete(context context.Context, actor policy.Actor, username string) error {
	user, err := service.loadFor(context, actor, username, policy.OpDelete)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_delete: %w", err)
	}

	service.logger.InfoContext(context, "account_deleted", slog.String("actor_id", actor.ID), slog.String("user_id", user.ID))
	return nil
}

// loadFor fetches the target and asks the policy engine. A missing target is
// reported as NOT_FOUND only to actors who could have acted on it.
func (service *Service) loadFor(context context.Context, actor policy.Actor, username string, op policy.Operation) (*User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			if denied := policy.Check(actor, "", op, policy.KindUser); denied != nil {
				return nil, denied
			}
		}
		return nil, err
	}

	if err := policy.Check(actor, user.ID, op, policy.KindUser); err != nil {
		return nil, err
	}
	return user, nil
}

// # Self Service

// ProfileInput is the self-editable subset of an account. It has no role.
type ProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// GetSelf returns the caller's own account.
func (service *Service) GetSelf(context context.Context, actor policy.Actor) (*User, error) {
	if err := policy.Check(actor, actor.ID, policy.OpRetrieve, policy.KindUser); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, actor.ID)
}

// UpdateSelf applies a partial profile update to the caller's own account.
// The role cannot change through this path.
func (service *Service) UpdateSelf(context context.Context, actor policy.Actor, input ProfileInput) (*User, error) {
	if err := policy.Check(actor, actor.ID, policy.OpUpdate, policy.KindUser); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(context, actor.ID)
	if err != nil {
		return nil, err
	}

	applyProfile(user, input)
	if err := checkUser(user); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_update_self: %w", err)
	}
	return user, nil
}

// # Helpers

func applyProfile(user *User, input ProfileInput) {
	for _, field := range []struct {
		src *string
		dst *string
	}{
		{input.Username, &user.Username},
		{input.Email, &user.Email},
		{input.FirstName, &user.FirstName},
		{input.LastName, &user.LastName},
		{input.Bio, &user.Bio},
	} {
		*field.dst = pointer.Or(field.src, *field.dst)
	}
}

func checkUser(user *User) error {
	v := &validate.Validator{}
	checkUsername(v, user.Username)
	checkEmail(v, user.Email)
	v.MaxLen(FieldFirstName, user.FirstName, MaxNameLength).
		MaxLen(FieldLastName, user.LastName, MaxNameLength)
	return v.Err()
}
