package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request is a recipient's need. MatchedDonationID and Status change together,
// only through the match operation.
type Request struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient"`
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `gorm:"not null" json:"description"`
	Category          string     `gorm:"not null;index:idx_requests_category_status" json:"category"`
	Subcategory       string     `gorm:"not null" json:"subcategory"`
	Quantity          int        `gorm:"not null" json:"quantity"`
	Unit              string     `gorm:"not null" json:"unit"`
	Priority          string     `gorm:"not null" json:"priority"`
	Urgency           string     `gorm:"not null" json:"urgency"`
	Location          Location   `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Status            string     `gorm:"not null;index:idx_requests_category_status" json:"status"`
	MatchedDonationID *uuid.UUID `gorm:"type:uuid" json:"matchedDonation"`
	DriveID           *uuid.UUID `gorm:"type:uuid;index" json:"drive"`
	LogisticsID       *uuid.UUID `gorm:"type:uuid" json:"logistics"`
	DeliveryDate      *time.Time `json:"deliveryDate,omitempty"`
	DeliveryStatus    string     `gorm:"not null" json:"deliveryStatus"`
	Feedback          Feedback   `gorm:"embedded;embeddedPrefix:feedback_" json:"feedback"`
	IsEmergency       bool       `gorm:"not null" json:"isEmergency"`
	EmergencyType     string     `json:"emergencyType,omitempty"`
	RequiredBy        *time.Time `json:"requiredBy,omitempty"`
	Tags              Strings    `json:"tags"`
	Images            Strings    `json:"images"`
	CreatedAt         time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (Request) TableName() string {
	return "requests"
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.Images = nonNil(r.Images)
	r.Tags = nonNil(r.Tags)
	return nil
}
