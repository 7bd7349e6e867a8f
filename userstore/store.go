package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	authcore "github.com/blogstack/authcore"
)

// Store is a gorm-backed UserProvider over a users table. Usernames are the
// stable key; emails are stored lowercased.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open gorm connection. The users table must exist; use
// Migrate for development setups.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the users table schema.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&userModel{})
}

type userModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex"`
	Email        string     `gorm:"column:email;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash"`
	Role         string     `gorm:"column:role"`
	Enabled      bool       `gorm:"column:enabled"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toRecord(m userModel) authcore.UserRecord {
	return authcore.UserRecord{
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Enabled:      m.Enabled,
	}
}

// FindByUsername looks an account up by its exact username.
func (s *Store) FindByUsername(ctx context.Context, username string) (authcore.UserRecord, bool, error) {
	var m userModel
	tx := s.db.WithContext(ctx).Where("username = ?", username).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return authcore.UserRecord{}, false, nil
		}
		return authcore.UserRecord{}, false, tx.Error
	}
	return toRecord(m), true, nil
}

// ExistsByUsername reports whether any account holds the username.
func (s *Store) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	tx := s.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", username).
		Count(&count)
	return count > 0, tx.Error
}

// ExistsByEmail reports whether any account holds the email,
// case-insensitively.
func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := s.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count)
	return count > 0, tx.Error
}

// Create inserts a new account row.
func (s *Store) Create(ctx context.Context, user authcore.UserRecord) error {
	m := userModel{
		Username:     user.Username,
		Email:        normalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Enabled:      user.Enabled,
	}
	return s.db.WithContext(ctx).Create(&m).Error
}

// UpdatePasswordHash replaces the stored hash for username.
func (s *Store) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	return s.updateColumn(ctx, username, "password_hash", passwordHash)
}

// SetEnabled flips the account's enabled flag.
func (s *Store) SetEnabled(ctx context.Context, username string, enabled bool) error {
	return s.updateColumn(ctx, username, "enabled", enabled)
}

// UpdateLastLogin stamps the account's last successful login.
func (s *Store) UpdateLastLogin(ctx context.Context, username string) error {
	now := time.Now()
	return s.updateColumn(ctx, username, "last_login_at", &now)
}

func (s *Store) updateColumn(ctx context.Context, username, column string, value any) error {
	tx := s.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", username).
		Update(column, value)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
