package api

import (
	"context" // Context for store operations

	"user_management/internal/domain" // Domain models
	"user_management/internal/store"  // GORM-backed store adapters

	"gorm.io/gorm" // GORM ORM library
)

// UserStore is the user adapter contract the handlers depend on
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context, page int, role, country string) ([]domain.User, int64, error)
	Search(ctx context.Context, query string) ([]domain.User, error)
	Create(ctx context.Context, fields store.UserFields) (uint, error)
	UpdateByID(ctx context.Context, id uint, fields store.UserFields) (bool, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
	CheckPassword(plaintext string, user *domain.User) bool
}

// AddressStore is the address adapter contract the handlers depend on
type AddressStore interface {
	Create(ctx context.Context, fields store.AddressFields) (uint, error)
	UpdateByID(ctx context.Context, id uint, fields store.AddressFields) (bool, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

// Atomic runs fn with both stores bound to a single transaction. An error
// returned by fn rolls the whole two-phase write back.
type Atomic func(ctx context.Context, fn func(users UserStore, addresses AddressStore) error) error

// GormAtomic builds the production Atomic over a GORM transaction
func GormAtomic(db *gorm.DB) Atomic {
	return func(ctx context.Context, fn func(users UserStore, addresses AddressStore) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(store.NewUsers(tx), store.NewAddresses(tx))
		})
	}
}
