package donations

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
)

// Service is the donation store. Every mutation passes the access guard first.
type Service struct {
	DB *gorm.DB
}

// Filter is the allow-listed donation listing filter.
type Filter struct {
	Category string
	Status   string
	City     string // case-insensitive substring of location.city
}

func resourceOf(d *domain.Donation) *access.Resource {
	return &access.Resource{Kind: access.KindDonation, ID: d.ID, OwnerID: d.DonorID}
}

func (s *Service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*domain.Donation, error) {
	if err := access.Authorize(actor, access.OpCreate, access.KindDonation, nil); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	d := &domain.Donation{
		DonorID:        actor.ID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Subcategory:    in.Subcategory,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		Condition:      in.Condition,
		Images:         domain.Strings(in.Images),
		Location:       in.Location,
		Status:         constants.DonationAvailable,
		DeliveryStatus: constants.DeliveryPending,
		IsEmergency:    in.IsEmergency,
		ExpiryDate:     in.ExpiryDate,
		Tags:           domain.Strings(in.Tags),
	}
	if err := s.DB.WithContext(ctx).Create(d).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	var d domain.Donation
	if err := s.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &d, nil
}

// List returns donations newest first. Unknown filter values simply match nothing.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) (pagination.Page[domain.Donation], error) {
	q := s.DB.WithContext(ctx).Model(&domain.Donation{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(location_city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	page, err := pagination.Find[domain.Donation](q, p, "created_at DESC", "id")
	if err != nil {
		return page, apperr.Internal(err)
	}
	return page, nil
}

// ListByDonor returns the donor's own donations newest first.
func (s *Service) ListByDonor(ctx context.Context, donorID uuid.UUID, p pagination.Params) (pagination.Page[domain.Donation], error) {
	q := s.DB.WithContext(ctx).Model(&domain.Donation{}).Where("donor_id = ?", donorID)
	page, err := pagination.Find[domain.Donation](q, p, "created_at DESC", "id")
	if err != nil {
		return page, apperr.Internal(err)
	}
	return page, nil
}

// Update changes descriptive fields. Status may only move to expired here; the
// other transitions go through Transition. Once a donation has left available,
// only an admin may still change quantity, category or condition.
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, in UpdateInput) (*domain.Donation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.OpUpdate, access.KindDonation, resourceOf(current)); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	upd := map[string]interface{}{}
	if in.Status != nil && *in.Status != current.Status {
		if *in.Status != constants.DonationExpired {
			return nil, ErrStatusNotEditable
		}
		if !constants.CanTransitionDonation(current.Status, constants.DonationExpired) {
			return nil, ErrIllegalStatus
		}
		upd["status"] = constants.DonationExpired
	}

	if current.Status != constants.DonationAvailable && !actor.IsAdmin() {
		if (in.Quantity != nil && *in.Quantity != current.Quantity) ||
			(in.Category != nil && *in.Category != current.Category) ||
			(in.Condition != nil && *in.Condition != current.Condition) {
			return nil, ErrDonationLocked
		}
	}

	if in.Title != nil {
		upd["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		upd["description"] = *in.Description
	}
	if in.Category != nil {
		upd["category"] = *in.Category
	}
	if in.Subcategory != nil {
		upd["subcategory"] = *in.Subcategory
	}
	if in.Quantity != nil {
		upd["quantity"] = *in.Quantity
	}
	if in.Unit != nil {
		upd["unit"] = *in.Unit
	}
	if in.Condition != nil {
		upd["condition"] = *in.Condition
	}
	if in.Images != nil {
		upd["images"] = domain.Strings(*in.Images)
	}
	if in.Tags != nil {
		upd["tags"] = domain.Strings(*in.Tags)
	}
	if in.Location != nil {
		for k, v := range in.Location.Columns() {
			upd[k] = v
		}
	}
	if in.DeliveryDate != nil {
		upd["delivery_date"] = *in.DeliveryDate
	}
	if in.DeliveryStatus != nil {
		upd["delivery_status"] = *in.DeliveryStatus
	}
	if in.Feedback != nil {
		for k, v := range in.Feedback.toDomain(time.Now()).Columns() {
			upd[k] = v
		}
	}
	if in.IsEmergency != nil {
		upd["is_emergency"] = *in.IsEmergency
	}
	if in.ExpiryDate != nil {
		upd["expiry_date"] = *in.ExpiryDate
	}
	if len(upd) == 0 {
		return current, nil
	}
	if err := s.applyIfStatus(ctx, id, current.Status, upd); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Transition moves a donation along available -> reserved -> donated, or to
// expired before donated. Admin and logistics may make any legal move; the donor
// may only expire. Reserving records the acting handler and the recipient.
func (s *Service) Transition(ctx context.Context, actor access.Actor, id uuid.UUID, in TransitionInput) (*domain.Donation, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.OpTransition, access.KindDonation, resourceOf(current)); err != nil {
		return nil, err
	}
	if !constants.AllowedRole(constants.TransitionStatus, actor.Role) && in.Status != constants.DonationExpired {
		return nil, ErrOnlyExpire
	}
	if !constants.CanTransitionDonation(current.Status, in.Status) {
		return nil, ErrIllegalStatus
	}

	upd := map[string]interface{}{"status": in.Status}
	if in.Status == constants.DonationReserved {
		upd["logistics_id"] = actor.ID
		if in.RecipientID != "" {
			rid := uuid.MustParse(in.RecipientID)
			var n int64
			if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", rid).Count(&n).Error; err != nil {
				return nil, apperr.Internal(err)
			}
			if n == 0 {
				return nil, ErrRecipientNotFound
			}
			upd["recipient_id"] = rid
		}
	}
	if err := s.applyIfStatus(ctx, id, current.Status, upd); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// applyIfStatus writes upd only while the row still has status from.
func (s *Service) applyIfStatus(ctx context.Context, id uuid.UUID, from string, upd map[string]interface{}) error {
	result := s.DB.WithContext(ctx).Model(&domain.Donation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(upd)
	if result.Error != nil {
		return apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return ErrStaleDonation
	}
	return nil
}

// Delete hard-deletes a donation. Requests matched to it keep the dangling id.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.OpDelete, access.KindDonation, resourceOf(current)); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&domain.Donation{}, "id = ?", id).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}
