// Package authsvc is the standalone login service: it checks bcrypt
// password hashes stored in the users table and issues the JWT accepted by
// the main API.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

const (
	RoleAdmin      = "admin"
	RoleTechnician = "technicien"
	RoleOffice     = "bureau"
)

var Roles = []string{RoleAdmin, RoleTechnician, RoleOffice}

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"size:20;not null"`
	Active       bool   `gorm:"not null;default:true"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Store struct {
	db   *gorm.DB
	cost int
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, cost: bcrypt.DefaultCost}
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("authsvc.Store.Migrate: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create hashes password and inserts the user, active.
func (s *Store) Create(ctx context.Context, email, name, role, password string) (User, error) {
	const op = "authsvc.Store.Create"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("%s: hash password: %w", op, err)
	}

	u := User{
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Active:       true,
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *Store) ByEmail(ctx context.Context, email string) (User, error) {
	const op = "authsvc.Store.ByEmail"

	var u User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *Store) SetActive(ctx context.Context, email string, active bool) error {
	const op = "authsvc.Store.SetActive"

	res := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", normalizeEmail(email)).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

func (s *Store) TouchLogin(ctx context.Context, id string, at time.Time) error {
	const op = "authsvc.Store.TouchLogin"

	if err := s.db.WithContext(ctx).Model(&User{ID: id}).Update("last_login", at).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
