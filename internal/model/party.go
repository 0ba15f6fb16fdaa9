package model

import (
	"time"

	"github.com/google/uuid"
)

// Party statuses, shared by farmers and manufacturers.
const (
	PartyStatusActive   = "active"
	PartyStatusInactive = "inactive"
)

// Farmer supplies paddy to the collection center.
type Farmer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"farmer_id"`
	FarmerCode string    `gorm:"uniqueIndex;not null" json:"farmer_code"`
	FullName   string    `gorm:"index;not null" json:"full_name"`
	NationalID *string   `gorm:"uniqueIndex" json:"national_id"`
	Phone      *string   `json:"phone"`
	Address    *string   `json:"address"`
	BankName   *string   `json:"bank_name"`
	BankAccNo  *string   `json:"bank_account_number"`
	Status     string    `gorm:"not null;default:'active'" json:"status"` // active | inactive
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Farmer) TableName() string { return "farmers" }

// Manufacturer buys collected paddy from the center.
type Manufacturer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"manufacturer_id"`
	ManufacturerCode string    `gorm:"uniqueIndex;not null" json:"manufacturer_code"`
	CompanyName      string    `gorm:"index;not null" json:"company_name"`
	ContactPerson    *string   `json:"contact_person"`
	Phone            *string   `json:"phone"`
	Email            *string   `json:"email"`
	Address          *string   `json:"address"`
	Status           string    `gorm:"not null;default:'active'" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Manufacturer) TableName() string { return "manufacturers" }
