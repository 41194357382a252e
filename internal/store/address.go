package store

import (
	"context" // Context for database operations
	"errors"  // Error inspection
	"fmt"     // Error message formatting
	"strings" // String manipulation

	"user_management/internal/domain" // Domain models
	"user_management/internal/errs"   // Failure kinds

	"gorm.io/gorm" // GORM ORM library
)

// AddressFields carries the writable fields of an address row
type AddressFields struct {
	Division      string // Division
	District      string // District
	Township      string // Township
	StreetAddress string // Street address
	Type          string // Owner tag, defaults to "user"
}

// Addresses is the store adapter for address rows
type Addresses struct {
	db *gorm.DB
}

// NewAddresses builds an address store over the given database handle
func NewAddresses(db *gorm.DB) *Addresses {
	return &Addresses{db: db}
}

func (f AddressFields) validate() error {
	if strings.TrimSpace(f.Division) == "" {
		return errs.ValidateFail("division", "division is required")
	}
	if strings.TrimSpace(f.District) == "" {
		return errs.ValidateFail("district", "district is required")
	}
	if strings.TrimSpace(f.Township) == "" {
		return errs.ValidateFail("township", "township is required")
	}
	if strings.TrimSpace(f.StreetAddress) == "" {
		return errs.ValidateFail("street_address", "street_address is required")
	}
	return nil
}

// Create validates the fields and inserts the row, returning the generated id
func (s *Addresses) Create(ctx context.Context, fields AddressFields) (uint, error) {
	if err := fields.validate(); err != nil {
		return 0, err
	}
	if fields.Type == "" {
		fields.Type = "user"
	}
	address := domain.Address{
		Division:      fields.Division,
		District:      fields.District,
		Township:      fields.Township,
		StreetAddress: fields.StreetAddress,
		Type:          fields.Type,
	}
	if err := s.db.WithContext(ctx).Create(&address).Error; err != nil {
		return 0, errs.SQL(err)
	}
	return address.ID, nil
}

// UpdateByID performs a full replace of the address fields, failing with
// NotFound when the id has no row and reporting false on zero rows affected
func (s *Addresses) UpdateByID(ctx context.Context, id uint, fields AddressFields) (bool, error) {
	if err := fields.validate(); err != nil {
		return false, err
	}
	if fields.Type == "" {
		fields.Type = "user"
	}
	var existing domain.Address
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.NotFound(fmt.Sprintf("address %d is not found", id))
		}
		return false, errs.SQL(err)
	}
	res := s.db.WithContext(ctx).Model(&domain.Address{ID: id}).
		Select("division", "district", "township", "street_address", "type").
		Updates(domain.Address{
			Division:      fields.Division,
			District:      fields.District,
			Township:      fields.Township,
			StreetAddress: fields.StreetAddress,
			Type:          fields.Type,
		})
	if res.Error != nil {
		return false, errs.SQL(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteByID removes an address row, failing with NotFound when absent
func (s *Addresses) DeleteByID(ctx context.Context, id uint) (bool, error) {
	var existing domain.Address
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.NotFound(fmt.Sprintf("address %d is not found", id))
		}
		return false, errs.SQL(err)
	}
	res := s.db.WithContext(ctx).Delete(&domain.Address{}, id)
	if res.Error != nil {
		return false, errs.SQL(res.Error)
	}
	return res.RowsAffected > 0, nil
}
