package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation is an item offered by a donor. Recipient and Logistics stay nil while
// the donation is available.
type Donation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"donor"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `gorm:"not null" json:"description"`
	Category       string     `gorm:"not null;index:idx_donations_category_status" json:"category"`
	Subcategory    string     `gorm:"not null" json:"subcategory"`
	Quantity       int        `gorm:"not null" json:"quantity"`
	Unit           string     `gorm:"not null" json:"unit"`
	Condition      string     `gorm:"not null" json:"condition"`
	Images         Strings    `json:"images"`
	Location       Location   `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Status         string     `gorm:"not null;index:idx_donations_category_status" json:"status"`
	DriveID        *uuid.UUID `gorm:"type:uuid;index" json:"drive"`
	RecipientID    *uuid.UUID `gorm:"type:uuid" json:"recipient"`
	LogisticsID    *uuid.UUID `gorm:"type:uuid" json:"logistics"`
	DeliveryDate   *time.Time `json:"deliveryDate,omitempty"`
	DeliveryStatus string     `gorm:"not null" json:"deliveryStatus"`
	Feedback       Feedback   `gorm:"embedded;embeddedPrefix:feedback_" json:"feedback"`
	IsEmergency    bool       `gorm:"not null" json:"isEmergency"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	Tags           Strings    `json:"tags"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Donation) TableName() string {
	return "donations"
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Images = nonNil(d.Images)
	d.Tags = nonNil(d.Tags)
	return nil
}
