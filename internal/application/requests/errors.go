package requests

import "sharebloom-backend/internal/pkg/apperr"

var (
	ErrRequestNotFound   = apperr.NotFound("Request not found")
	ErrDonationNotFound  = apperr.NotFound("Donation not found")
	ErrDonationIDMissing = apperr.Validation("donationId is required",
		apperr.FieldError{Field: "donationId", Message: "is required"})
	ErrRequestNotPending = apperr.InvalidState("Request is not pending and cannot be matched")
	ErrStatusNotEditable = apperr.Validation("Status can only be set to cancelled or fulfilled through update",
		apperr.FieldError{Field: "status", Message: "must be cancelled or fulfilled"})
	ErrIllegalStatus = apperr.InvalidState("Illegal request status transition")
	ErrStaleRequest  = apperr.InvalidState("Request status changed; reload and retry")
)
