package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TargetItem struct {
	Item        string `json:"item"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	Description string `json:"description,omitempty"`
}

type CollectedItem struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

type (
	TargetItems    = datatypes.JSONSlice[TargetItem]
	CollectedItems = datatypes.JSONSlice[CollectedItem]
)

type Progress struct {
	TotalDonations int            `gorm:"not null" json:"totalDonations"`
	TotalValue     float64        `gorm:"not null" json:"totalValue"`
	ItemsCollected CollectedItems `json:"itemsCollected"`
}

type Requirements struct {
	MinAge              int     `gorm:"not null" json:"minAge"`
	Documentation       Strings `json:"documentation"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

// Columns returns the embedded requirements columns for a map update.
func (r Requirements) Columns() map[string]interface{} {
	return map[string]interface{}{
		"requirements_min_age":              r.MinAge,
		"requirements_documentation":        nonNil(r.Documentation),
		"requirements_special_instructions": r.SpecialInstructions,
	}
}

// Drive is an admin-organized collection campaign. Volunteers, attached
// donations and logistics handlers are stored as keyed rows so membership
// is a set.
type Drive struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string       `gorm:"not null" json:"title"`
	Description      string       `gorm:"not null" json:"description"`
	OrganizerID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"organizer"`
	Category         string       `gorm:"not null" json:"category"`
	TargetItems      TargetItems  `json:"targetItems"`
	Location         Location     `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	StartDate        time.Time    `gorm:"not null;index:idx_drives_status_dates" json:"startDate"`
	EndDate          time.Time    `gorm:"not null;index:idx_drives_status_dates" json:"endDate"`
	Status           string       `gorm:"not null;index:idx_drives_status_dates" json:"status"`
	IsEmergency      bool         `gorm:"not null" json:"isEmergency"`
	EmergencyType    string       `json:"emergencyType,omitempty"`
	TargetRecipients int          `gorm:"not null" json:"targetRecipients"`
	Progress         Progress     `gorm:"embedded;embeddedPrefix:progress_" json:"progress"`
	Requirements     Requirements `gorm:"embedded;embeddedPrefix:requirements_" json:"requirements"`
	Images           Strings      `json:"images"`
	Tags             Strings      `json:"tags"`
	IsPublic         bool         `gorm:"not null" json:"isPublic"`
	CreatedAt        time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`

	Volunteers       []DriveVolunteer `gorm:"foreignKey:DriveID" json:"volunteers"`
	CurrentDonations []DriveDonation  `gorm:"foreignKey:DriveID" json:"currentDonations"`
	Logistics        []DriveLogistics `gorm:"foreignKey:DriveID" json:"logistics"`
}

func (Drive) TableName() string {
	return "donation_drives"
}

func (d *Drive) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.TargetItems = nonNil(d.TargetItems)
	d.Images = nonNil(d.Images)
	d.Tags = nonNil(d.Tags)
	d.Progress.ItemsCollected = nonNil(d.Progress.ItemsCollected)
	d.Requirements.Documentation = nonNil(d.Requirements.Documentation)
	return nil
}

// DriveVolunteer is keyed by (drive, user): a user volunteers at most once per drive.
type DriveVolunteer struct {
	DriveID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user"`
	Role     string    `gorm:"not null" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
}

func (DriveVolunteer) TableName() string {
	return "drive_volunteers"
}

type DriveDonation struct {
	DriveID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	DonationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"donation"`
	AddedAt    time.Time `gorm:"not null" json:"addedAt"`
}

func (DriveDonation) TableName() string {
	return "drive_donations"
}

type DriveLogistics struct {
	DriveID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user"`
	AssignedAt time.Time `gorm:"not null" json:"assignedAt"`
}

func (DriveLogistics) TableName() string {
	return "drive_logistics"
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{}, &Donation{}, &Request{}, &Drive{},
		&DriveVolunteer{}, &DriveDonation{}, &DriveLogistics{},
	}
}
