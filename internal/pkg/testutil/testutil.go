// Package testutil builds in-memory databases and fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"sharebloom-backend/internal/application/policies/access"
	"sharebloom-backend/internal/domain"
	"sharebloom-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated sqlite :memory: database. A single connection keeps
// every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewRedis starts a miniredis server and returns a client for it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

// CreateUser inserts a user with the given role and returns it.
func CreateUser(t *testing.T, db *gorm.DB, role string) *domain.User {
	t.Helper()
	id := uuid.New()
	u := &domain.User{
		ID:           id,
		Name:         "User " + role,
		Email:        role + "-" + id.String()[:8] + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Phone:        "555-0100",
		Address:      "1 Main St",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// ActorFor returns the access actor for u.
func ActorFor(u *domain.User) access.Actor {
	return access.Actor{ID: u.ID, Role: u.Role, Email: u.Email, Name: u.Name}
}

// CreateDonation inserts an available donation owned by donorID.
func CreateDonation(t *testing.T, db *gorm.DB, donorID uuid.UUID, mutate ...func(*domain.Donation)) *domain.Donation {
	t.Helper()
	d := &domain.Donation{
		DonorID:        donorID,
		Title:          "Rice bags",
		Description:    "Ten kilo bags of rice",
		Category:       constants.CategoryFood,
		Subcategory:    "grains",
		Quantity:       4,
		Unit:           "bags",
		Condition:      constants.ConditionNew,
		Location:       domain.Location{City: "Springfield"},
		Status:         constants.DonationAvailable,
		DeliveryStatus: constants.DeliveryPending,
	}
	for _, m := range mutate {
		m(d)
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

// CreateRequest inserts a pending request owned by recipientID.
func CreateRequest(t *testing.T, db *gorm.DB, recipientID uuid.UUID, mutate ...func(*domain.Request)) *domain.Request {
	t.Helper()
	r := &domain.Request{
		RecipientID:    recipientID,
		Title:          "Need rice",
		Description:    "Family of five needs rice",
		Category:       constants.CategoryFood,
		Subcategory:    "grains",
		Quantity:       5,
		Unit:           "bags",
		Priority:       constants.PriorityMedium,
		Urgency:        constants.UrgencyNormal,
		Status:         constants.RequestPending,
		DeliveryStatus: constants.DeliveryPending,
	}
	for _, m := range mutate {
		m(r)
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateDrive inserts an upcoming public drive organized by organizerID.
func CreateDrive(t *testing.T, db *gorm.DB, organizerID uuid.UUID, mutate ...func(*domain.Drive)) *domain.Drive {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	d := &domain.Drive{
		Title:       "Winter clothing drive",
		Description: "Collecting coats for the winter",
		OrganizerID: organizerID,
		Category:    constants.CategoryClothing,
		StartDate:   start,
		EndDate:     start.Add(7 * 24 * time.Hour),
		Status:      constants.DriveUpcoming,
		IsPublic:    true,
	}
	for _, m := range mutate {
		m(d)
	}
	require.NoError(t, db.Create(d).Error)
	return d
}
