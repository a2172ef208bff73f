package donations

import "sharebloom-backend/internal/pkg/apperr"

var (
	ErrDonationNotFound  = apperr.NotFound("Donation not found")
	ErrRecipientNotFound = apperr.NotFound("Recipient not found")
	ErrStatusNotEditable = apperr.Validation("Status can only be set to expired through update",
		apperr.FieldError{Field: "status", Message: "must be expired"})
	ErrDonationLocked = apperr.InvalidState("Quantity, category and condition cannot change once the donation is no longer available")
	ErrIllegalStatus  = apperr.InvalidState("Illegal donation status transition")
	ErrOnlyExpire     = apperr.NotAuthorized("Donors may only expire their own donations")
	ErrStaleDonation  = apperr.InvalidState("Donation status changed; reload and retry")
)
