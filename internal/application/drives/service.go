package drives

import (
	"context"
	"errors"
	"strings"
	"time"

	"sharebloom-backend/internal/application/policies/access"
	"sharebloom-backend/internal/domain"
	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/constants"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the drive store plus drive participation: volunteers,
// attached donations and logistics assignments.
type Service struct {
	DB *gorm.DB
}

// Filter is the allow-listed drive listing filter.
type Filter struct {
	Status      string
	Category    string
	IsEmergency *bool
}

func (s *Service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*domain.Drive, error) {
	if err := access.Authorize(actor, access.OpCreate, access.KindDrive, nil); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrDateRange
	}
	if in.IsEmergency && in.EmergencyType == "" {
		return nil, ErrEmergencyTypeRequired
	}
	if in.Status == "" {
		in.Status = constants.DriveUpcoming
	}
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	d := &domain.Drive{
		Title:            in.Title,
		Description:      in.Description,
		OrganizerID:      actor.ID,
		Category:         in.Category,
		TargetItems:      targetItems(in.TargetItems),
		Location:         in.Location,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Status:           in.Status,
		IsEmergency:      in.IsEmergency,
		EmergencyType:    in.EmergencyType,
		TargetRecipients: in.TargetRecipients,
		Requirements:     in.Requirements.toDomain(),
		Images:           domain.Strings(in.Images),
		Tags:             domain.Strings(in.Tags),
		IsPublic:         isPublic,
	}
	if err := s.DB.WithContext(ctx).Create(d).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return s.Get(ctx, d.ID)
}

// Get loads a drive with its volunteers, attached donations and logistics.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Drive, error) {
	var d domain.Drive
	err := s.DB.WithContext(ctx).
		Preload("Volunteers", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at") }).
		Preload("CurrentDonations", func(db *gorm.DB) *gorm.DB { return db.Order("added_at") }).
		Preload("Logistics", func(db *gorm.DB) *gorm.DB { return db.Order("assigned_at") }).
		First(&d, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriveNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &d, nil
}

// List returns drives newest first without their membership rows.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) (pagination.Page[domain.Drive], error) {
	q := s.DB.WithContext(ctx).Model(&domain.Drive{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsEmergency != nil {
		q = q.Where("is_emergency = ?", *f.IsEmergency)
	}
	page, err := pagination.Find[domain.Drive](q, p, "created_at DESC", "id")
	if err != nil {
		return page, apperr.Internal(err)
	}
	return page, nil
}

func (s *Service) exists(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Drive{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		return ErrDriveNotFound
	}
	return nil
}

func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, in UpdateInput) (*domain.Drive, error) {
	var current domain.Drive
	if err := s.DB.WithContext(ctx).First(&current, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriveNotFound
		}
		return nil, apperr.Internal(err)
	}
	if err := access.Authorize(actor, access.OpUpdate, access.KindDrive, &access.Resource{Kind: access.KindDrive, ID: id, OwnerID: current.OrganizerID}); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	start, end := current.StartDate, current.EndDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	if end.Before(start) {
		return nil, ErrDateRange
	}
	emergency, emergencyType := current.IsEmergency, current.EmergencyType
	if in.IsEmergency != nil {
		emergency = *in.IsEmergency
	}
	if in.EmergencyType != nil {
		emergencyType = *in.EmergencyType
	}
	if emergency && emergencyType == "" {
		return nil, ErrEmergencyTypeRequired
	}

	upd := map[string]interface{}{}
	if in.Title != nil {
		upd["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		upd["description"] = *in.Description
	}
	if in.Category != nil {
		upd["category"] = *in.Category
	}
	if in.TargetItems != nil {
		upd["target_items"] = targetItems(*in.TargetItems)
	}
	if in.Location != nil {
		for k, v := range in.Location.Columns() {
			upd[k] = v
		}
	}
	if in.StartDate != nil {
		upd["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		upd["end_date"] = *in.EndDate
	}
	if in.Status != nil {
		upd["status"] = *in.Status
	}
	if in.IsEmergency != nil {
		upd["is_emergency"] = *in.IsEmergency
	}
	if in.EmergencyType != nil {
		upd["emergency_type"] = *in.EmergencyType
	}
	if in.TargetRecipients != nil {
		upd["target_recipients"] = *in.TargetRecipients
	}
	if in.Requirements != nil {
		for k, v := range in.Requirements.toDomain().Columns() {
			upd[k] = v
		}
	}
	if in.Images != nil {
		upd["images"] = domain.Strings(*in.Images)
	}
	if in.Tags != nil {
		upd["tags"] = domain.Strings(*in.Tags)
	}
	if in.IsPublic != nil {
		upd["is_public"] = *in.IsPublic
	}
	if len(upd) > 0 {
		if err := s.DB.WithContext(ctx).Model(&domain.Drive{}).Where("id = ?", id).Updates(upd).Error; err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the drive and its membership rows in one transaction.
// Donations that referenced the drive keep the dangling reference.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	var current domain.Drive
	if err := s.DB.WithContext(ctx).First(&current, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDriveNotFound
		}
		return apperr.Internal(err)
	}
	if err := access.Authorize(actor, access.OpDelete, access.KindDrive, &access.Resource{Kind: access.KindDrive, ID: id, OwnerID: current.OrganizerID}); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&domain.DriveVolunteer{}, &domain.DriveDonation{}, &domain.DriveLogistics{}} {
			if err := tx.Where("drive_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Drive{}, "id = ?", id).Error
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// JoinAsVolunteer adds the actor to the drive's volunteers. The insert is keyed
// by (drive, user), so concurrent joins never lose each other and a repeat join
// fails with ErrAlreadyVolunteer.
func (s *Service) JoinAsVolunteer(ctx context.Context, actor access.Actor, driveID uuid.UUID, in VolunteerInput) (*domain.Drive, error) {
	if err := access.Authorize(actor, access.OpVolunteer, access.KindDrive, nil); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.exists(ctx, driveID); err != nil {
		return nil, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = constants.DefaultVolunteerRole
	}
	row := &domain.DriveVolunteer{DriveID: driveID, UserID: actor.ID, Role: role, JoinedAt: time.Now()}
	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return nil, apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyVolunteer
	}
	return s.Get(ctx, driveID)
}

// AttachDonation adds a donation to the drive, points the donation at the
// drive and recomputes the drive's progress. A donation already in another
// drive is rejected with ErrInOtherDrive. The drive row is locked for the
// recompute on databases that support row locks.
func (s *Service) AttachDonation(ctx context.Context, actor access.Actor, driveID uuid.UUID, in AttachDonationInput) (*domain.Drive, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	donationID := uuid.MustParse(in.DonationID)
	if err := s.exists(ctx, driveID); err != nil {
		return nil, err
	}
	var donation domain.Donation
	if err := s.DB.WithContext(ctx).First(&donation, "id = ?", donationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, apperr.Internal(err)
	}
	res := &access.Resource{Kind: access.KindDonation, ID: donation.ID, OwnerID: donation.DonorID}
	if err := access.Authorize(actor, access.OpAttach, access.KindDonation, res); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDrive(tx, driveID); err != nil {
			return err
		}
		// A donation belongs to at most one live drive.
		claimed := tx.Model(&domain.Donation{}).
			Where("id = ? AND (drive_id IS NULL OR drive_id = ? OR drive_id NOT IN (SELECT id FROM drives))", donationID, driveID).
			Update("drive_id", driveID)
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return ErrInOtherDrive
		}
		row := &domain.DriveDonation{DriveID: driveID, DonationID: donationID, AddedAt: time.Now()}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyAttached
		}
		return recomputeProgress(tx, driveID)
	})
	if err != nil {
		return nil, apperr.As(err)
	}
	return s.Get(ctx, driveID)
}

// AssignLogistics adds a logistics user to the drive's handler set.
func (s *Service) AssignLogistics(ctx context.Context, actor access.Actor, driveID uuid.UUID, in AssignLogisticsInput) (*domain.Drive, error) {
	if err := access.Authorize(actor, access.OpAssign, access.KindDrive, nil); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	userID := uuid.MustParse(in.UserID)
	if err := s.exists(ctx, driveID); err != nil {
		return nil, err
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Select("id", "role").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	if u.Role != constants.Logistics {
		return nil, ErrNotLogisticsUser
	}
	row := &domain.DriveLogistics{DriveID: driveID, UserID: userID, AssignedAt: time.Now()}
	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return nil, apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyAssigned
	}
	return s.Get(ctx, driveID)
}
