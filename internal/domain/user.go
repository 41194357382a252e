package domain

// Role values a user may hold
const (
	RoleSubAdmin = "sub_admin" // Limited administrative access
	RoleDonator  = "donator"   // Donating member
	RoleAdmin    = "admin"     // Full administrative access
)

// Country codes a user may belong to
const (
	CountryJP = "jp" // Japan
	CountryMM = "mm" // Myanmar
	CountrySG = "sg" // Singapore
	CountryTH = "th" // Thailand
)

// ValidRole reports whether role is one of the enumerated role values
func ValidRole(role string) bool {
	return role == RoleSubAdmin || role == RoleDonator || role == RoleAdmin
}

// ValidCountry reports whether country is one of the enumerated country codes
func ValidCountry(country string) bool {
	return country == CountryJP || country == CountryMM || country == CountrySG || country == CountryTH
}

// User Model
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`                                          // Primary key
	Name           string  `gorm:"not null" json:"name"`                                          // Display name
	Email          string  `gorm:"uniqueIndex;size:191;not null" json:"email"`                    // Unique email
	AddressID      uint    `gorm:"not null" json:"-"`                                             // Foreign key to Address
	Address        Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"address"` // Owned one-to-one Address
	Password       string  `gorm:"not null" json:"-"`                                             // Hashed password, never serialized
	Role           string  `gorm:"type:enum('sub_admin','donator','admin');not null" json:"role"` // Role: sub_admin, donator or admin
	Country        string  `gorm:"type:enum('jp','mm','sg','th');not null" json:"country"`        // Country: jp, mm, sg or th
	DonationActive bool    `gorm:"default:false" json:"donation_active"`                          // Whether donations are active
}
