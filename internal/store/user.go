package store

import (
	"context" // Context for database operations
	"errors"  // Error inspection
	"fmt"     // Error message formatting
	"strings" // String manipulation

	"user_management/internal/domain" // Domain models
	"user_management/internal/errs"   // Failure kinds

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// PageSize is the fixed number of users per listing page
const PageSize = 20

// UserFields carries the writable fields of a user row
type UserFields struct {
	Name           string // Display name
	Email          string // Unique email
	AddressID      uint   // Owned address reference
	Password       string // Plaintext password, hashed before storage
	Role           string // Role enum value
	Country        string // Country enum value
	DonationActive bool   // Whether donations are active
}

// Users is the store adapter for user rows
type Users struct {
	db *gorm.DB
}

// NewUsers builds a user store over the given database handle
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// validate checks required fields and enum membership
func (f UserFields) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errs.ValidateFail("name", "name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return errs.ValidateFail("email", "email is required")
	}
	if f.Password == "" {
		return errs.ValidateFail("password", "password is required")
	}
	if f.AddressID == 0 {
		return errs.ValidateFail("address_id", "address reference is required")
	}
	if !domain.ValidRole(f.Role) {
		return errs.ValidateFail("role", fmt.Sprintf("role %q is not one of sub_admin, donator, admin", f.Role))
	}
	if !domain.ValidCountry(f.Country) {
		return errs.ValidateFail("country", fmt.Sprintf("country %q is not one of jp, mm, sg, th", f.Country))
	}
	return nil
}

// GetByID fetches a user and its address by id
func (s *Users) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Preload("Address").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound(fmt.Sprintf("user %d is not found", id))
	}
	if err != nil {
		return nil, errs.SQL(err)
	}
	return &user, nil
}

// GetByEmail fetches a user by email, returning (nil, nil) when absent.
// Login uses the nil result to distinguish an unknown member from a
// storage failure.
func (s *Users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.SQL(err)
	}
	return &user, nil
}

// GetAll returns one page of users plus the filtered total count.
// Pages are 1-indexed and ordered by id ascending so consecutive pages
// stay disjoint. Empty role or country skips that filter.
func (s *Users) GetAll(ctx context.Context, page int, role, country string) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	query := s.db.WithContext(ctx).Model(&domain.User{})
	if role != "" {
		query = query.Where("role = ?", role) // Filter by role
	}
	if country != "" {
		query = query.Where("country = ?", country) // Filter by country
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.SQL(err)
	}
	var users []domain.User
	if err := query.Preload("Address").Order("id asc").Offset((page - 1) * PageSize).Limit(PageSize).Find(&users).Error; err != nil {
		return nil, 0, errs.SQL(err)
	}
	return users, total, nil
}

// Search returns users whose name or email contains the query substring
func (s *Users) Search(ctx context.Context, query string) ([]domain.User, error) {
	like := "%" + query + "%"
	var users []domain.User
	err := s.db.WithContext(ctx).Preload("Address").
		Where("name LIKE ? OR email LIKE ?", like, like).
		Order("id asc").Find(&users).Error
	if err != nil {
		return nil, errs.SQL(err)
	}
	return users, nil
}

// Create validates the fields, hashes the password and inserts the row,
// returning the generated id. A duplicate email surfaces as a Conflict.
func (s *Users) Create(ctx context.Context, fields UserFields) (uint, error) {
	if err := fields.validate(); err != nil {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, errs.SQL(err)
	}
	user := domain.User{
		Name:           fields.Name,
		Email:          fields.Email,
		AddressID:      fields.AddressID,
		Password:       string(hash),
		Role:           fields.Role,
		Country:        fields.Country,
		DonationActive: fields.DonationActive,
	}
	// Omit the association: the address row is created by its own adapter
	if err := s.db.WithContext(ctx).Omit("Address").Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, errs.Conflict("email", fmt.Sprintf("email %s already exists", fields.Email))
		}
		return 0, errs.SQL(err)
	}
	return user.ID, nil
}

// UpdateByID performs a full replace of the writable fields. It fails with
// NotFound when the id has no row and reports false when the store layer
// touched zero rows.
func (s *Users) UpdateByID(ctx context.Context, id uint, fields UserFields) (bool, error) {
	if err := fields.validate(); err != nil {
		return false, err
	}
	var existing domain.User
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.NotFound(fmt.Sprintf("user %d is not found", id))
		}
		return false, errs.SQL(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, errs.SQL(err)
	}
	// Select forces zero values (donation_active false) to be written too
	res := s.db.WithContext(ctx).Model(&domain.User{ID: id}).
		Select("name", "email", "address_id", "password", "role", "country", "donation_active").
		Updates(domain.User{
			Name:           fields.Name,
			Email:          fields.Email,
			AddressID:      fields.AddressID,
			Password:       string(hash),
			Role:           fields.Role,
			Country:        fields.Country,
			DonationActive: fields.DonationActive,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, errs.Conflict("email", fmt.Sprintf("email %s already exists", fields.Email))
		}
		return false, errs.SQL(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteByID removes a user row, failing with NotFound when absent
func (s *Users) DeleteByID(ctx context.Context, id uint) (bool, error) {
	var existing domain.User
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.NotFound(fmt.Sprintf("user %d is not found", id))
		}
		return false, errs.SQL(err)
	}
	res := s.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return false, errs.SQL(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CheckPassword compares a plaintext password against the stored hash
func (s *Users) CheckPassword(plaintext string, user *domain.User) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plaintext)) == nil
}
