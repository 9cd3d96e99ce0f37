// Package policy holds the single decision function for every mutation of
// shared content. Handlers and services never compare roles or owner ids
// directly; they ask Allowed.
package policy

import (
	"farmlink-backend/internal/models"

	"github.com/google/uuid"
)

type Action int

const (
	ActionViewAdminPanel Action = iota
	ActionChangeUserRole
	ActionEditUser
	ActionDeleteUser
	ActionCreatePost
	ActionEditPost
	ActionDeletePost
	ActionCreateComment
	ActionDeleteComment
	ActionToggleLike
	ActionCreateProduct
	ActionDeleteProduct
)

// Target carries the identity facts a decision depends on. OwnerID is the
// owner of the entity being acted on (for user-targeted actions, the target
// user's own id). PostOwnerID is the owner of the parent post and is only
// consulted for comment actions.
type Target struct {
	OwnerID     uuid.UUID
	PostOwnerID uuid.UUID
}

// Allowed evaluates the access rule for action against target. A nil actor is
// an anonymous request and is denied everything.
func Allowed(actor *models.User, action Action, target Target) bool {
	if actor == nil {
		return false
	}
	admin := actor.Role == models.UserRoleAdmin

	switch action {
	case ActionViewAdminPanel, ActionChangeUserRole, ActionEditUser:
		return admin
	case ActionDeleteUser:
		// Admins manage accounts but may never remove their own.
		return admin && actor.ID != target.OwnerID
	case ActionCreatePost, ActionCreateComment, ActionToggleLike:
		return true
	case ActionEditPost, ActionDeletePost, ActionDeleteProduct:
		return admin || actor.ID == target.OwnerID
	case ActionDeleteComment:
		return admin || actor.ID == target.OwnerID || actor.ID == target.PostOwnerID
	case ActionCreateProduct:
		return actor.Role.CanListProducts()
	}
	return false
}
