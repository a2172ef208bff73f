package requests

import (
	"context"
	"errors"
	"fmt"
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

// Service is the request store and the matching workflow.
type Service struct {
	DB *gorm.DB
}

// Filter is the allow-listed request listing filter.
type Filter struct {
	Category string
	Status   string
	Priority string
	Urgency  string
}

var (
	priorityOrder = rankExpr("priority", constants.PriorityOrder)
	urgencyOrder  = rankExpr("urgency", constants.UrgencyOrder)
)

// rankExpr orders a column by its position in order; unknown values sort last.
func rankExpr(column string, order []string) string {
	var b strings.Builder
	b.WriteString("CASE " + column)
	for i, v := range order {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", v, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(order))
	return b.String()
}

func resourceOf(r *domain.Request) *access.Resource {
	return &access.Resource{Kind: access.KindRequest, ID: r.ID, OwnerID: r.RecipientID}
}

func (s *Service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*domain.Request, error) {
	if err := access.Authorize(actor, access.OpCreate, access.KindRequest, nil); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = constants.PriorityMedium
	}
	if in.Urgency == "" {
		in.Urgency = constants.UrgencyNormal
	}
	r := &domain.Request{
		RecipientID:    actor.ID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Subcategory:    in.Subcategory,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		Priority:       in.Priority,
		Urgency:        in.Urgency,
		Location:       in.Location,
		Status:         constants.RequestPending,
		DeliveryStatus: constants.DeliveryPending,
		IsEmergency:    in.IsEmergency,
		EmergencyType:  in.EmergencyType,
		RequiredBy:     in.RequiredBy,
		Tags:           domain.Strings(in.Tags),
		Images:         domain.Strings(in.Images),
	}
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	var r domain.Request
	if err := s.DB.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &r, nil
}

// List returns requests most pressing first: priority, then urgency, then newest.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) (pagination.Page[domain.Request], error) {
	q := s.DB.WithContext(ctx).Model(&domain.Request{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Urgency != "" {
		q = q.Where("urgency = ?", f.Urgency)
	}
	page, err := pagination.Find[domain.Request](q, p, priorityOrder, urgencyOrder, "created_at DESC", "id")
	if err != nil {
		return page, apperr.Internal(err)
	}
	return page, nil
}

// ListByRecipient returns the recipient's own requests newest first.
func (s *Service) ListByRecipient(ctx context.Context, recipientID uuid.UUID, p pagination.Params) (pagination.Page[domain.Request], error) {
	q := s.DB.WithContext(ctx).Model(&domain.Request{}).Where("recipient_id = ?", recipientID)
	page, err := pagination.Find[domain.Request](q, p, "created_at DESC", "id")
	if err != nil {
		return page, apperr.Internal(err)
	}
	return page, nil
}

// Update changes descriptive fields. Through update a request may only be
// cancelled or fulfilled; matching has its own operation.
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, in UpdateInput) (*domain.Request, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.OpUpdate, access.KindRequest, resourceOf(current)); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	upd := map[string]interface{}{}
	if in.Status != nil && *in.Status != current.Status {
		to := *in.Status
		if to != constants.RequestCancelled && to != constants.RequestFulfilled {
			return nil, ErrStatusNotEditable
		}
		if !constants.CanTransitionRequest(current.Status, to) {
			return nil, ErrIllegalStatus
		}
		upd["status"] = to
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
	if in.Priority != nil {
		upd["priority"] = *in.Priority
	}
	if in.Urgency != nil {
		upd["urgency"] = *in.Urgency
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
		now := time.Now()
		fb := domain.Feedback{Rating: in.Feedback.Rating, Comment: in.Feedback.Comment, Date: &now}
		for k, v := range fb.Columns() {
			upd[k] = v
		}
	}
	if in.IsEmergency != nil {
		upd["is_emergency"] = *in.IsEmergency
	}
	if in.EmergencyType != nil {
		upd["emergency_type"] = *in.EmergencyType
	}
	if in.RequiredBy != nil {
		upd["required_by"] = *in.RequiredBy
	}
	if in.Tags != nil {
		upd["tags"] = domain.Strings(*in.Tags)
	}
	if in.Images != nil {
		upd["images"] = domain.Strings(*in.Images)
	}
	if len(upd) == 0 {
		return current, nil
	}

	result := s.DB.WithContext(ctx).Model(&domain.Request{}).
		Where("id = ? AND status = ?", id, current.Status).
		Updates(upd)
	if result.Error != nil {
		return nil, apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStaleRequest
	}
	return s.Get(ctx, id)
}

// Match links a pending request to a donation and records the acting handler.
// The status check and the write are one conditional UPDATE, so concurrent
// matches on the same request succeed at most once.
//
// TODO: the donation keeps its own status here; reserving it is left to
// Donations.Transition until product decides whether match should reserve.
func (s *Service) Match(ctx context.Context, actor access.Actor, requestID uuid.UUID, in MatchInput) (*domain.Request, error) {
	if err := access.Authorize(actor, access.OpMatch, access.KindRequest, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.DonationID) == "" {
		return nil, ErrDonationIDMissing
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	donationID := uuid.MustParse(in.DonationID)

	if _, err := s.Get(ctx, requestID); err != nil {
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Donation{}).Where("id = ?", donationID).Count(&n).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if n == 0 {
		return nil, ErrDonationNotFound
	}

	result := s.DB.WithContext(ctx).Model(&domain.Request{}).
		Where("id = ? AND status = ?", requestID, constants.RequestPending).
		Updates(map[string]interface{}{
			"matched_donation_id": donationID,
			"status":              constants.RequestMatched,
			"logistics_id":        actor.ID,
		})
	if result.Error != nil {
		return nil, apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := s.Get(ctx, requestID); err != nil {
			return nil, err
		}
		return nil, ErrRequestNotPending
	}
	return s.Get(ctx, requestID)
}

// Delete hard-deletes a request.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.OpDelete, access.KindRequest, resourceOf(current)); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&domain.Request{}, "id = ?", id).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}
