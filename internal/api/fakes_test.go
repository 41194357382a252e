package api_test

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"user_management/internal/api"
	"user_management/internal/domain"
	"user_management/internal/errs"
	"user_management/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// fakeDB is an in-memory stand-in for the backing store shared by the
// fake adapters
type fakeDB struct {
	users      map[uint]*domain.User
	addresses  map[uint]*domain.Address
	nextUser   uint
	nextAddr   uint
	addrUpdate bool     // Result reported by address UpdateByID
	calls      []string // Operation order, for asserting two-phase sequencing
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:      make(map[uint]*domain.User),
		addresses:  make(map[uint]*domain.Address),
		nextUser:   1,
		nextAddr:   1,
		addrUpdate: true,
	}
}

// seedUser inserts a user with a bcrypt-hashed password and its address
func (db *fakeDB) seedUser(name, email, password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	addr := &domain.Address{
		ID:            db.nextAddr,
		Division:      "Yangon",
		District:      "Yangon",
		Township:      "Hlaing",
		StreetAddress: "No. 5 Main Rd",
		Type:          "user",
	}
	db.addresses[addr.ID] = addr
	user := &domain.User{
		ID:        db.nextUser,
		Name:      name,
		Email:     email,
		AddressID: addr.ID,
		Password:  string(hash),
		Role:      domain.RoleDonator,
		Country:   domain.CountryMM,
	}
	db.users[user.ID] = user
	db.nextUser++
	db.nextAddr++
	return user
}

func (db *fakeDB) snapshot() (map[uint]*domain.User, map[uint]*domain.Address) {
	users := make(map[uint]*domain.User, len(db.users))
	for id, u := range db.users {
		copied := *u
		users[id] = &copied
	}
	addresses := make(map[uint]*domain.Address, len(db.addresses))
	for id, a := range db.addresses {
		copied := *a
		addresses[id] = &copied
	}
	return users, addresses
}

type fakeUsers struct{ db *fakeDB }

func (f *fakeUsers) withAddress(u *domain.User) *domain.User {
	copied := *u
	if addr, ok := f.db.addresses[u.AddressID]; ok {
		copied.Address = *addr
	}
	return &copied
}

func (f *fakeUsers) GetByID(_ context.Context, id uint) (*domain.User, error) {
	user, ok := f.db.users[id]
	if !ok {
		return nil, errs.NotFound(fmt.Sprintf("user %d is not found", id))
	}
	return f.withAddress(user), nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.db.users {
		if user.Email == email {
			return f.withAddress(user), nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetAll(_ context.Context, page int, role, country string) ([]domain.User, int64, error) {
	var matched []domain.User
	for _, user := range f.db.users {
		if role != "" && user.Role != role {
			continue
		}
		if country != "" && user.Country != country {
			continue
		}
		matched = append(matched, *f.withAddress(user))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := (page - 1) * store.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + store.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeUsers) Search(_ context.Context, query string) ([]domain.User, error) {
	var matched []domain.User
	for _, user := range f.db.users {
		if strings.Contains(user.Name, query) || strings.Contains(user.Email, query) {
			matched = append(matched, *f.withAddress(user))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (f *fakeUsers) validate(fields store.UserFields) error {
	if fields.Name == "" {
		return errs.ValidateFail("name", "name is required")
	}
	if fields.Email == "" {
		return errs.ValidateFail("email", "email is required")
	}
	if fields.Password == "" {
		return errs.ValidateFail("password", "password is required")
	}
	if !domain.ValidRole(fields.Role) {
		return errs.ValidateFail("role", "bad role")
	}
	if !domain.ValidCountry(fields.Country) {
		return errs.ValidateFail("country", "bad country")
	}
	return nil
}

func (f *fakeUsers) Create(_ context.Context, fields store.UserFields) (uint, error) {
	f.db.calls = append(f.db.calls, "user.create")
	if err := f.validate(fields); err != nil {
		return 0, err
	}
	for _, user := range f.db.users {
		if user.Email == fields.Email {
			return 0, errs.Conflict("email", "email already exists")
		}
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.MinCost)
	user := &domain.User{
		ID:             f.db.nextUser,
		Name:           fields.Name,
		Email:          fields.Email,
		AddressID:      fields.AddressID,
		Password:       string(hash),
		Role:           fields.Role,
		Country:        fields.Country,
		DonationActive: fields.DonationActive,
	}
	f.db.users[user.ID] = user
	f.db.nextUser++
	return user.ID, nil
}

func (f *fakeUsers) UpdateByID(_ context.Context, id uint, fields store.UserFields) (bool, error) {
	f.db.calls = append(f.db.calls, "user.update")
	if err := f.validate(fields); err != nil {
		return false, err
	}
	user, ok := f.db.users[id]
	if !ok {
		return false, errs.NotFound(fmt.Sprintf("user %d is not found", id))
	}
	user.Name = fields.Name
	user.Email = fields.Email
	user.AddressID = fields.AddressID
	user.Role = fields.Role
	user.Country = fields.Country
	user.DonationActive = fields.DonationActive
	return true, nil
}

func (f *fakeUsers) DeleteByID(_ context.Context, id uint) (bool, error) {
	f.db.calls = append(f.db.calls, "user.delete")
	if _, ok := f.db.users[id]; !ok {
		return false, errs.NotFound(fmt.Sprintf("user %d is not found", id))
	}
	delete(f.db.users, id)
	return true, nil
}

func (f *fakeUsers) CheckPassword(plaintext string, user *domain.User) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plaintext)) == nil
}

type fakeAddresses struct{ db *fakeDB }

func (f *fakeAddresses) Create(_ context.Context, fields store.AddressFields) (uint, error) {
	f.db.calls = append(f.db.calls, "address.create")
	if fields.Division == "" {
		return 0, errs.ValidateFail("division", "division is required")
	}
	addr := &domain.Address{
		ID:            f.db.nextAddr,
		Division:      fields.Division,
		District:      fields.District,
		Township:      fields.Township,
		StreetAddress: fields.StreetAddress,
		Type:          fields.Type,
	}
	f.db.addresses[addr.ID] = addr
	f.db.nextAddr++
	return addr.ID, nil
}

func (f *fakeAddresses) UpdateByID(_ context.Context, id uint, fields store.AddressFields) (bool, error) {
	f.db.calls = append(f.db.calls, "address.update")
	addr, ok := f.db.addresses[id]
	if !ok {
		return false, errs.NotFound(fmt.Sprintf("address %d is not found", id))
	}
	if !f.db.addrUpdate {
		return false, nil
	}
	addr.Division = fields.Division
	addr.District = fields.District
	addr.Township = fields.Township
	addr.StreetAddress = fields.StreetAddress
	addr.Type = fields.Type
	return true, nil
}

func (f *fakeAddresses) DeleteByID(_ context.Context, id uint) (bool, error) {
	f.db.calls = append(f.db.calls, "address.delete")
	if _, ok := f.db.addresses[id]; !ok {
		return false, errs.NotFound(fmt.Sprintf("address %d is not found", id))
	}
	delete(f.db.addresses, id)
	return true, nil
}

// fakeAtomic mimics the transactional wrapper: an error restores the
// pre-call state so a failed two-phase write leaves nothing behind
func fakeAtomic(db *fakeDB) api.Atomic {
	return func(_ context.Context, fn func(api.UserStore, api.AddressStore) error) error {
		users, addresses := db.snapshot()
		if err := fn(&fakeUsers{db: db}, &fakeAddresses{db: db}); err != nil {
			db.users, db.addresses = users, addresses
			return err
		}
		return nil
	}
}
