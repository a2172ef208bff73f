package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"sharebloom-backend/internal/domain"
	"sharebloom-backend/internal/pkg/constants"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB from a Postgres DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers such as PgBouncer.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// SeedAdminInput describes the bootstrap admin account.
type SeedAdminInput struct {
	Email    string
	Password string
	Name     string
}

var ErrSeedInputMissing = errors.New("seed admin email and password are required")

// SeedAdmin creates the admin account unless a user with that email exists.
// created reports whether a row was inserted.
func SeedAdmin(ctx context.Context, db *gorm.DB, in SeedAdminInput) (u *domain.User, created bool, err error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, false, ErrSeedInputMissing
	}
	var existing domain.User
	err = db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	u = &domain.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         constants.Admin,
		IsVerified:   true,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Pinger adapts a gorm DB to the health check's Ping interface.
type Pinger struct {
	DB *gorm.DB
}

func (p *Pinger) Ping() error {
	if p == nil || p.DB == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
