package domain

// Address Model
type Address struct {
	ID            uint   `gorm:"primaryKey" json:"id"`     // Primary key
	Division      string `json:"division"`                 // Division
	District      string `json:"district"`                 // District
	Township      string `json:"township"`                 // Township
	StreetAddress string `json:"street_address"`           // Street address
	Type          string `gorm:"default:user" json:"type"` // Owner tag, e.g. "user"
}
