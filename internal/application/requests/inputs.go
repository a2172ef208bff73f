package requests

import (
	"time"

	"sharebloom-backend/internal/domain"
)

type FeedbackInput struct {
	Rating  *int   `json:"rating" validate:"omitnil,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// CreateInput is the request filing schema. Priority defaults to medium and
// urgency to normal.
type CreateInput struct {
	Title         string          `json:"title" validate:"required,min=3,max=100"`
	Description   string          `json:"description" validate:"required,min=10,max=1000"`
	Category      string          `json:"category" validate:"required,oneof=food clothing medical shelter education other"`
	Subcategory   string          `json:"subcategory" validate:"required"`
	Quantity      int             `json:"quantity" validate:"min=1"`
	Unit          string          `json:"unit" validate:"required"`
	Priority      string          `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Urgency       string          `json:"urgency" validate:"omitempty,oneof=normal emergency critical"`
	Location      domain.Location `json:"location"`
	IsEmergency   bool            `json:"isEmergency"`
	EmergencyType string          `json:"emergencyType" validate:"omitempty,oneof=natural_disaster pandemic conflict economic_crisis other"`
	RequiredBy    *time.Time      `json:"requiredBy"`
	Tags          []string        `json:"tags"`
	Images        []string        `json:"images" validate:"omitempty,dive,required"`
}

// UpdateInput carries descriptive changes; nil fields are left alone.
type UpdateInput struct {
	Title          *string          `json:"title" validate:"omitnil,min=3,max=100"`
	Description    *string          `json:"description" validate:"omitnil,min=10,max=1000"`
	Category       *string          `json:"category" validate:"omitnil,oneof=food clothing medical shelter education other"`
	Subcategory    *string          `json:"subcategory" validate:"omitnil,min=1"`
	Quantity       *int             `json:"quantity" validate:"omitnil,min=1"`
	Unit           *string          `json:"unit" validate:"omitnil,min=1"`
	Priority       *string          `json:"priority" validate:"omitnil,oneof=low medium high urgent"`
	Urgency        *string          `json:"urgency" validate:"omitnil,oneof=normal emergency critical"`
	Location       *domain.Location `json:"location"`
	DeliveryDate   *time.Time       `json:"deliveryDate"`
	DeliveryStatus *string          `json:"deliveryStatus" validate:"omitnil,oneof=pending scheduled in_transit delivered failed"`
	Feedback       *FeedbackInput   `json:"feedback"`
	IsEmergency    *bool            `json:"isEmergency"`
	EmergencyType  *string          `json:"emergencyType" validate:"omitnil,oneof=natural_disaster pandemic conflict economic_crisis other"`
	RequiredBy     *time.Time       `json:"requiredBy"`
	Tags           *[]string        `json:"tags"`
	Images         *[]string        `json:"images"`
	Status         *string          `json:"status" validate:"omitnil,oneof=pending matched fulfilled cancelled"`
}

type MatchInput struct {
	DonationID string `json:"donationId" validate:"omitempty,uuid"`
}
