package drives

import (
	"time"

	"sharebloom-backend/internal/domain"
)

type TargetItemInput struct {
	Item        string `json:"item" validate:"required"`
	Quantity    int    `json:"quantity" validate:"min=1"`
	Unit        string `json:"unit" validate:"required"`
	Description string `json:"description"`
}

type RequirementsInput struct {
	MinAge              int      `json:"minAge" validate:"min=0"`
	Documentation       []string `json:"documentation"`
	SpecialInstructions string   `json:"specialInstructions"`
}

// CreateInput is the drive schema. Status defaults to upcoming and drives are
// public unless isPublic is false.
type CreateInput struct {
	Title            string             `json:"title" validate:"required,min=3,max=100"`
	Description      string             `json:"description" validate:"required,min=10,max=2000"`
	Category         string             `json:"category" validate:"required,oneof=food clothing medical shelter education mixed"`
	TargetItems      []TargetItemInput  `json:"targetItems" validate:"omitempty,dive"`
	Location         domain.Location    `json:"location"`
	StartDate        time.Time          `json:"startDate" validate:"required"`
	EndDate          time.Time          `json:"endDate" validate:"required"`
	Status           string             `json:"status" validate:"omitempty,oneof=upcoming active completed cancelled"`
	IsEmergency      bool               `json:"isEmergency"`
	EmergencyType    string             `json:"emergencyType" validate:"omitempty,oneof=natural_disaster pandemic conflict economic_crisis other"`
	TargetRecipients int                `json:"targetRecipients" validate:"min=0"`
	Requirements     *RequirementsInput `json:"requirements"`
	Images           []string           `json:"images"`
	Tags             []string           `json:"tags"`
	IsPublic         *bool              `json:"isPublic"`
}

// UpdateInput carries drive changes; nil fields are left alone. Date order and
// the emergency type rule are checked against the merged result.
type UpdateInput struct {
	Title            *string            `json:"title" validate:"omitnil,min=3,max=100"`
	Description      *string            `json:"description" validate:"omitnil,min=10,max=2000"`
	Category         *string            `json:"category" validate:"omitnil,oneof=food clothing medical shelter education mixed"`
	TargetItems      *[]TargetItemInput `json:"targetItems" validate:"omitnil,dive"`
	Location         *domain.Location   `json:"location"`
	StartDate        *time.Time         `json:"startDate"`
	EndDate          *time.Time         `json:"endDate"`
	Status           *string            `json:"status" validate:"omitnil,oneof=upcoming active completed cancelled"`
	IsEmergency      *bool              `json:"isEmergency"`
	EmergencyType    *string            `json:"emergencyType" validate:"omitnil,oneof=natural_disaster pandemic conflict economic_crisis other"`
	TargetRecipients *int               `json:"targetRecipients" validate:"omitnil,min=0"`
	Requirements     *RequirementsInput `json:"requirements"`
	Images           *[]string          `json:"images"`
	Tags             *[]string          `json:"tags"`
	IsPublic         *bool              `json:"isPublic"`
}

type VolunteerInput struct {
	Role string `json:"role" validate:"max=50"`
}

type AttachDonationInput struct {
	DonationID string `json:"donationId" validate:"required,uuid"`
}

type AssignLogisticsInput struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

func targetItems(in []TargetItemInput) domain.TargetItems {
	out := make(domain.TargetItems, 0, len(in))
	for _, t := range in {
		out = append(out, domain.TargetItem{Item: t.Item, Quantity: t.Quantity, Unit: t.Unit, Description: t.Description})
	}
	return out
}

func (r *RequirementsInput) toDomain() domain.Requirements {
	if r == nil {
		return domain.Requirements{}
	}
	return domain.Requirements{
		MinAge:              r.MinAge,
		Documentation:       domain.Strings(r.Documentation),
		SpecialInstructions: r.SpecialInstructions,
	}
}
