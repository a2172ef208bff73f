// Package access decides whether an actor may perform an operation on a resource.
// It performs no I/O: callers load the resource first and pass its ownership fields.
package access

import (
	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

// Actor is the authenticated identity behind an operation.
type Actor struct {
	ID    uuid.UUID
	Role  string
	Email string
	Name  string
}

func (a Actor) IsAdmin() bool { return a.Role == constants.Admin }

type Operation string

const (
	OpCreate     Operation = "create"
	OpRead       Operation = "read"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
	OpMatch      Operation = "match"
	OpChangeRole Operation = "change_role"
	OpVolunteer  Operation = "volunteer"
	OpTransition Operation = "transition"
	OpAttach     Operation = "attach"
	OpAssign     Operation = "assign"
)

type ResourceKind string

const (
	KindUser     ResourceKind = "user"
	KindDonation ResourceKind = "donation"
	KindRequest  ResourceKind = "request"
	KindDrive    ResourceKind = "drive"
)

// Resource carries the fields the guard needs from a loaded record. OwnerID is the
// donor of a donation, the recipient of a request, the organizer of a drive and the
// user itself for a user.
type Resource struct {
	Kind    ResourceKind
	ID      uuid.UUID
	OwnerID uuid.UUID
}

var createPermission = map[ResourceKind]string{
	KindDonation: constants.CreateDonation,
	KindRequest:  constants.CreateRequest,
	KindDrive:    constants.CreateDrive,
}

// Authorize returns nil when the actor may perform op, otherwise a NotAuthorized
// or Conflict error whose message names the reason.
func Authorize(actor Actor, op Operation, kind ResourceKind, res *Resource) error {
	if actor.ID == uuid.Nil || actor.Role == "" {
		return ErrNotAuthenticated
	}
	switch op {
	case OpRead:
		return nil
	case OpCreate:
		perm, ok := createPermission[kind]
		if !ok || !constants.AllowedRole(perm, actor.Role) {
			return ErrRoleNotAllowed
		}
		return nil
	case OpVolunteer:
		return nil
	case OpMatch:
		if !constants.AllowedRole(constants.MatchRequest, actor.Role) {
			return ErrRoleNotAllowed
		}
		return nil
	case OpChangeRole:
		if !constants.AllowedRole(constants.ChangeRole, actor.Role) {
			return ErrRoleNotAllowed
		}
		return nil
	case OpAssign:
		if !constants.AllowedRole(constants.AssignLogistics, actor.Role) {
			return ErrRoleNotAllowed
		}
		return nil
	}

	if res == nil {
		return ErrRoleNotAllowed
	}
	switch kind {
	case KindDonation, KindRequest:
		return ownerOrAdmin(actor, op, res)
	case KindDrive:
		if op == OpUpdate || op == OpDelete {
			if actor.IsAdmin() {
				return nil
			}
			return ErrRoleNotAllowed
		}
	case KindUser:
		return authorizeUser(actor, op, res)
	}
	return ErrRoleNotAllowed
}

func ownerOrAdmin(actor Actor, op Operation, res *Resource) error {
	switch op {
	case OpUpdate, OpDelete:
		if actor.IsAdmin() || actor.ID == res.OwnerID {
			return nil
		}
		return ErrNotOwner
	case OpTransition:
		if constants.AllowedRole(constants.TransitionStatus, actor.Role) || actor.ID == res.OwnerID {
			return nil
		}
		return ErrNotOwner
	case OpAttach:
		// attaching a donation to a drive: the donation's donor or an admin
		if actor.IsAdmin() || actor.ID == res.OwnerID {
			return nil
		}
		return ErrNotOwner
	}
	return ErrRoleNotAllowed
}

func authorizeUser(actor Actor, op Operation, res *Resource) error {
	switch op {
	case OpUpdate:
		if actor.IsAdmin() || actor.ID == res.ID {
			return nil
		}
		return ErrNotSelf
	case OpDelete:
		if !actor.IsAdmin() {
			return ErrRoleNotAllowed
		}
		if actor.ID == res.ID {
			return ErrCannotDeleteSelf
		}
		return nil
	}
	return ErrRoleNotAllowed
}

// CanView reports whether actor may read another user's full profile.
func CanView(actor Actor, userID uuid.UUID) error {
	if actor.IsAdmin() || actor.ID == userID {
		return nil
	}
	return ErrNotSelf
}

var protectedUserFields = []string{"password", "passwordHash", "password_hash", "role", "isVerified", "is_verified"}

// StripProtectedUserFields removes keys that are never settable through a profile update.
func StripProtectedUserFields(patch map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		out[k] = v
	}
	for _, k := range protectedUserFields {
		delete(out, k)
	}
	return out
}

var (
	ErrNotAuthenticated = apperr.NotAuthorized("Not authenticated")
	ErrRoleNotAllowed   = apperr.NotAuthorized("User is Forbidden from performing this action")
	ErrNotOwner         = apperr.NotAuthorized("Not authorized to modify this resource")
	ErrNotSelf          = apperr.NotAuthorized("Not authorized to access this user")
	ErrCannotDeleteSelf = apperr.Conflict("Cannot delete your own account")
)
