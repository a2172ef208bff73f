package drives

import "sharebloom-backend/internal/pkg/apperr"

var (
	ErrDriveNotFound    = apperr.NotFound("Drive not found")
	ErrDonationNotFound = apperr.NotFound("Donation not found")
	ErrUserNotFound     = apperr.NotFound("User not found")

	ErrAlreadyVolunteer = apperr.Conflict("Already a volunteer for this drive")
	ErrAlreadyAttached  = apperr.Conflict("Donation is already part of this drive")
	ErrInOtherDrive     = apperr.Conflict("Donation already belongs to another drive")
	ErrAlreadyAssigned  = apperr.Conflict("User is already assigned to this drive")

	ErrNotLogisticsUser = apperr.Validation("Only logistics users can be assigned to a drive",
		apperr.FieldError{Field: "userId", Message: "must reference a logistics user"})
	ErrDateRange = apperr.Validation("End date must not be before start date",
		apperr.FieldError{Field: "endDate", Message: "must be on or after startDate"})
	ErrEmergencyTypeRequired = apperr.Validation("Emergency type is required for emergency drives",
		apperr.FieldError{Field: "emergencyType", Message: "is required"})
)
