package donations

import (
	"time"

	"sharebloom-backend/internal/domain"
)

type FeedbackInput struct {
	Rating  *int   `json:"rating" validate:"omitnil,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (f *FeedbackInput) toDomain(now time.Time) domain.Feedback {
	return domain.Feedback{Rating: f.Rating, Comment: f.Comment, Date: &now}
}

// CreateInput is the donation listing schema.
type CreateInput struct {
	Title       string          `json:"title" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"required,min=10,max=1000"`
	Category    string          `json:"category" validate:"required,oneof=food clothing medical shelter education other"`
	Subcategory string          `json:"subcategory" validate:"required"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	Unit        string          `json:"unit" validate:"required"`
	Condition   string          `json:"condition" validate:"required,oneof=new like_new good fair poor"`
	Images      []string        `json:"images" validate:"omitempty,dive,required"`
	Location    domain.Location `json:"location"`
	IsEmergency bool            `json:"isEmergency"`
	ExpiryDate  *time.Time      `json:"expiryDate"`
	Tags        []string        `json:"tags"`
}

// UpdateInput carries descriptive changes; nil fields are left alone.
type UpdateInput struct {
	Title          *string          `json:"title" validate:"omitnil,min=3,max=100"`
	Description    *string          `json:"description" validate:"omitnil,min=10,max=1000"`
	Category       *string          `json:"category" validate:"omitnil,oneof=food clothing medical shelter education other"`
	Subcategory    *string          `json:"subcategory" validate:"omitnil,min=1"`
	Quantity       *int             `json:"quantity" validate:"omitnil,min=1"`
	Unit           *string          `json:"unit" validate:"omitnil,min=1"`
	Condition      *string          `json:"condition" validate:"omitnil,oneof=new like_new good fair poor"`
	Images         *[]string        `json:"images"`
	Location       *domain.Location `json:"location"`
	DeliveryDate   *time.Time       `json:"deliveryDate"`
	DeliveryStatus *string          `json:"deliveryStatus" validate:"omitnil,oneof=pending scheduled in_transit delivered failed"`
	Feedback       *FeedbackInput   `json:"feedback"`
	IsEmergency    *bool            `json:"isEmergency"`
	ExpiryDate     *time.Time       `json:"expiryDate"`
	Tags           *[]string        `json:"tags"`
	Status         *string          `json:"status" validate:"omitnil,oneof=available reserved donated expired"`
}

// TransitionInput drives the donation state machine by hand.
type TransitionInput struct {
	Status      string `json:"status" validate:"required,oneof=reserved donated expired"`
	RecipientID string `json:"recipientId" validate:"omitempty,uuid"`
}
