// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package policy is the single access-control decision point of YaMDb.

Every mutating service method asks [Check] before it writes. The engine is a
pure function of (actor, resource owner, operation, resource kind): it holds
no state and performs no I/O.

Rules:

  - list/retrieve on catalogue and social resources: anyone, anonymous included.
  - create/update/delete on categories, genres and titles: admin.
  - create on reviews and comments: any authenticated actor.
  - update/delete on reviews and comments: the author, or moderator and above.
  - user records: admin, except that the owner may retrieve and update itself.
*/
package policy

import (
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Vocabulary

// Operation names what the actor wants to do.
type Operation string

const (
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

// Kind names the resource being acted upon.
type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
	KindTitle    Kind = "title"
	KindReview   Kind = "review"
	KindComment  Kind = "comment"
	KindUser     Kind = "user"
)

// Actor is the caller of an operation. The zero value is the anonymous actor.
type Actor struct {
	ID       string
	Username string
	Role     sec.UserRole
}

// Anonymous is the unauthenticated actor.
var Anonymous = Actor{}

// ActorFromClaims converts verified token claims into an actor. Nil claims yield [Anonymous].
func ActorFromClaims(claims *sec.AuthClaims) Actor {
	if claims == nil {
		return Anonymous
	}
	return Actor{ID: claims.UserID, Username: claims.Username, Role: claims.Role}
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool { return a.ID != "" }

// Owns reports whether the actor is the given owner.
func (a Actor) Owns(ownerID string) bool {
	return a.Authenticated() && ownerID != "" && a.ID == ownerID
}

// # Decision

// Allow reports whether actor may perform op on a resource of kind owned by ownerID.
// ownerID is the author id for reviews and comments, the target user id for users,
// and ignored for catalogue kinds.
func Allow(actor Actor, ownerID string, op Operation, kind Kind) bool {
	switch kind {
	case KindCategory, KindGenre, KindTitle:
		if isRead(op) {
			return true
		}
		return isWrite(op) && isAdmin(actor)

	case KindReview, KindComment:
		switch op {
		case OpList, OpRetrieve:
			return true
		case OpCreate:
			return actor.Authenticated() && actor.Role.Valid()
		case OpUpdate, OpDelete:
			return actor.Owns(ownerID) || (actor.Authenticated() && actor.Role.AtLeast(sec.RoleModerator))
		}
		return false

	case KindUser:
		if isAdmin(actor) {
			return isRead(op) || isWrite(op)
		}
		return (op == OpRetrieve || op == OpUpdate) && actor.Owns(ownerID)
	}

	return false
}

// Check is [Allow] with an error: UNAUTHORIZED when an anonymous actor is denied,
// FORBIDDEN when an authenticated one is.
func Check(actor Actor, ownerID string, op Operation, kind Kind) error {
	if Allow(actor, ownerID, op, kind) {
		return nil
	}
	if !actor.Authenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You do not have permission to " + string(op) + " this " + string(kind))
}

func isAdmin(actor Actor) bool {
	return actor.Authenticated() && actor.Role.AtLeast(sec.RoleAdmin)
}

func isRead(op Operation) bool { return op == OpList || op == OpRetrieve }

func isWrite(op Operation) bool { return op == OpCreate || op == OpUpdate || op == OpDelete }
