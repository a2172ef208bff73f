package access

import (
	"errors"
	"testing"

	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func actor(role string) Actor {
	return Actor{ID: uuid.New(), Role: role}
}

func TestAuthorize_Create(t *testing.T) {
	assert.NoError(t, Authorize(actor(constants.Donor), OpCreate, KindDonation, nil))
	assert.NoError(t, Authorize(actor(constants.Recipient), OpCreate, KindRequest, nil))
	assert.NoError(t, Authorize(actor(constants.Admin), OpCreate, KindDrive, nil))

	assert.ErrorIs(t, Authorize(actor(constants.Recipient), OpCreate, KindDonation, nil), ErrRoleNotAllowed)
	assert.ErrorIs(t, Authorize(actor(constants.Admin), OpCreate, KindDonation, nil), ErrRoleNotAllowed)
	assert.ErrorIs(t, Authorize(actor(constants.Donor), OpCreate, KindRequest, nil), ErrRoleNotAllowed)
	assert.ErrorIs(t, Authorize(actor(constants.Logistics), OpCreate, KindDrive, nil), ErrRoleNotAllowed)
}

func TestAuthorize_Unauthenticated(t *testing.T) {
	err := Authorize(Actor{}, OpRead, KindDonation, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthorize_OwnerOrAdmin(t *testing.T) {
	owner := actor(constants.Donor)
	res := &Resource{Kind: KindDonation, ID: uuid.New(), OwnerID: owner.ID}

	for _, op := range []Operation{OpUpdate, OpDelete} {
		assert.NoError(t, Authorize(owner, op, KindDonation, res))
		assert.NoError(t, Authorize(actor(constants.Admin), op, KindDonation, res))

		err := Authorize(actor(constants.Donor), op, KindDonation, res)
		assert.ErrorIs(t, err, ErrNotOwner)
		assert.Equal(t, apperr.KindNotAuthorized, apperr.KindOf(err))

		assert.ErrorIs(t, Authorize(actor(constants.Logistics), op, KindDonation, res), ErrNotOwner)
	}

	recipient := actor(constants.Recipient)
	req := &Resource{Kind: KindRequest, ID: uuid.New(), OwnerID: recipient.ID}
	assert.NoError(t, Authorize(recipient, OpUpdate, KindRequest, req))
	assert.ErrorIs(t, Authorize(actor(constants.Recipient), OpDelete, KindRequest, req), ErrNotOwner)
}

func TestAuthorize_MissingResource(t *testing.T) {
	assert.ErrorIs(t, Authorize(actor(constants.Admin), OpUpdate, KindDonation, nil), ErrRoleNotAllowed)
}

func TestAuthorize_DriveAdminOnly(t *testing.T) {
	admin := actor(constants.Admin)
	res := &Resource{Kind: KindDrive, ID: uuid.New(), OwnerID: uuid.New()}
	assert.NoError(t, Authorize(admin, OpUpdate, KindDrive, res))
	assert.NoError(t, Authorize(admin, OpDelete, KindDrive, res))

	organizerButNotAdmin := Actor{ID: res.OwnerID, Role: constants.Logistics}
	assert.ErrorIs(t, Authorize(organizerButNotAdmin, OpUpdate, KindDrive, res), ErrRoleNotAllowed)
}

func TestAuthorize_Match(t *testing.T) {
	assert.NoError(t, Authorize(actor(constants.Admin), OpMatch, KindRequest, nil))
	assert.NoError(t, Authorize(actor(constants.Logistics), OpMatch, KindRequest, nil))

	recipient := actor(constants.Recipient)
	owned := &Resource{Kind: KindRequest, ID: uuid.New(), OwnerID: recipient.ID}
	assert.ErrorIs(t, Authorize(recipient, OpMatch, KindRequest, owned), ErrRoleNotAllowed)
	assert.ErrorIs(t, Authorize(actor(constants.Donor), OpMatch, KindRequest, nil), ErrRoleNotAllowed)
}

func TestAuthorize_Transition(t *testing.T) {
	donor := actor(constants.Donor)
	res := &Resource{Kind: KindDonation, ID: uuid.New(), OwnerID: donor.ID}
	assert.NoError(t, Authorize(donor, OpTransition, KindDonation, res))
	assert.NoError(t, Authorize(actor(constants.Logistics), OpTransition, KindDonation, res))
	assert.ErrorIs(t, Authorize(actor(constants.Recipient), OpTransition, KindDonation, res), ErrNotOwner)
}

func TestAuthorize_Volunteer(t *testing.T) {
	for _, role := range constants.ValidRoles {
		assert.NoError(t, Authorize(actor(role), OpVolunteer, KindDrive, nil), role)
	}
}

func TestAuthorize_UserUpdate(t *testing.T) {
	self := actor(constants.Donor)
	res := &Resource{Kind: KindUser, ID: self.ID, OwnerID: self.ID}
	assert.NoError(t, Authorize(self, OpUpdate, KindUser, res))
	assert.NoError(t, Authorize(actor(constants.Admin), OpUpdate, KindUser, res))
	assert.ErrorIs(t, Authorize(actor(constants.Recipient), OpUpdate, KindUser, res), ErrNotSelf)
}

func TestAuthorize_UserDelete(t *testing.T) {
	admin := actor(constants.Admin)
	other := &Resource{Kind: KindUser, ID: uuid.New()}
	assert.NoError(t, Authorize(admin, OpDelete, KindUser, other))

	self := &Resource{Kind: KindUser, ID: admin.ID}
	err := Authorize(admin, OpDelete, KindUser, self)
	assert.True(t, errors.Is(err, ErrCannotDeleteSelf))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	donor := actor(constants.Donor)
	assert.ErrorIs(t, Authorize(donor, OpDelete, KindUser, &Resource{Kind: KindUser, ID: donor.ID}), ErrRoleNotAllowed)
}

func TestAuthorize_ChangeRole(t *testing.T) {
	assert.NoError(t, Authorize(actor(constants.Admin), OpChangeRole, KindUser, nil))
	assert.ErrorIs(t, Authorize(actor(constants.Donor), OpChangeRole, KindUser, nil), ErrRoleNotAllowed)
}

func TestStripProtectedUserFields(t *testing.T) {
	patch := map[string]interface{}{
		"name":       "New Name",
		"password":   "hunter2!x",
		"role":       "admin",
		"isVerified": true,
	}
	out := StripProtectedUserFields(patch)
	assert.Equal(t, map[string]interface{}{"name": "New Name"}, out)
	assert.Len(t, patch, 4, "input map must not be mutated")
}
