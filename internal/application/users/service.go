package users

import (
	"context"
	"errors"
	"strings"

	"sharebloom-backend/internal/application/policies/access"
	"sharebloom-backend/internal/application/policies/sessions"
	"sharebloom-backend/internal/domain"
	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/constants"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service holds DB and Redis for user operations. Redis is used to drop the
// sessions of users whose role changed or who were deleted.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Filter is the allow-listed user listing filter.
type Filter struct {
	Role string
	Q    string // case-insensitive substring of name or email
}

// List returns users newest first.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) (pagination.Page[domain.User], error) {
	q := s.DB.WithContext(ctx).Model(&domain.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if term := strings.TrimSpace(f.Q); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	page, err := pagination.Find[domain.User](q, p, "created_at DESC", "id")
	if err != nil {
		return page, apperr.Internal(err)
	}
	return page, nil
}

// ListByRole returns users holding role.
func (s *Service) ListByRole(ctx context.Context, role string, p pagination.Params) (pagination.Page[domain.User], error) {
	if !constants.IsValidRole(role) {
		return pagination.Page[domain.User]{}, ErrInvalidRole
	}
	return s.List(ctx, Filter{Role: role}, p)
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

// Get returns a user to itself or to an admin.
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*domain.User, error) {
	if err := access.CanView(actor, id); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Patch is the profile update schema.
type Patch struct {
	Name         *string `json:"name" validate:"omitnil,min=2,max=100"`
	Email        *string `json:"email" validate:"omitnil,mailaddr"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Organization *string `json:"organization" validate:"omitempty,max=200"`
	Address      *string `json:"address" validate:"omitempty,max=300"`
}

var patchColumns = map[string]string{
	"name":         "name",
	"email":        "email",
	"phone":        "phone",
	"organization": "organization",
	"address":      "address",
}

// Update applies a profile patch. Password, role and verification keys are
// stripped before anything else; the role has its own operation.
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, fields map[string]interface{}) (*domain.User, error) {
	if err := access.Authorize(actor, access.OpUpdate, access.KindUser, &access.Resource{Kind: access.KindUser, ID: id, OwnerID: id}); err != nil {
		return nil, err
	}
	fields = access.StripProtectedUserFields(fields)

	upd := make(map[string]interface{})
	var patch Patch
	for key, v := range fields {
		col, ok := patchColumns[key]
		if !ok {
			continue
		}
		sv, ok := v.(string)
		if !ok {
			return nil, apperr.Validation(key+" must be a string", apperr.FieldError{Field: key, Message: "must be a string"})
		}
		sv = strings.TrimSpace(sv)
		switch key {
		case "name":
			patch.Name = &sv
		case "email":
			sv = strings.ToLower(sv)
			patch.Email = &sv
		case "phone":
			patch.Phone = &sv
		case "organization":
			patch.Organization = &sv
		case "address":
			patch.Address = &sv
		}
		upd[col] = sv
	}
	if len(upd) == 0 {
		return nil, ErrNoValidFields
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	if patch.Email != nil {
		var dup int64
		if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("email = ? AND id <> ?", *patch.Email, id).Count(&dup).Error; err != nil {
			return nil, apperr.Internal(err)
		}
		if dup > 0 {
			return nil, ErrEmailTaken
		}
	}

	result := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(upd)
	if result.Error != nil {
		return nil, apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.find(ctx, id)
}

// ChangeRole sets a user's role and signs them out everywhere.
func (s *Service) ChangeRole(ctx context.Context, actor access.Actor, id uuid.UUID, role string) (*domain.User, error) {
	if err := access.Authorize(actor, access.OpChangeRole, access.KindUser, nil); err != nil {
		return nil, err
	}
	if !constants.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if actor.ID == id {
		return nil, ErrCannotChangeOwnRole
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == role {
		return u, nil
	}
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	u.Role = role
	sessions.DestroyUserSessions(ctx, s.Rdb, id.String())
	return u, nil
}

// Delete hard-deletes a user. Records the user owns keep their dangling references.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := access.Authorize(actor, access.OpDelete, access.KindUser, &access.Resource{Kind: access.KindUser, ID: id, OwnerID: id}); err != nil {
		return err
	}
	result := s.DB.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		return apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	sessions.DestroyUserSessions(ctx, s.Rdb, id.String())
	return nil
}
