package dto

import (
	"paddyledger/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Farmers ─────────────────────────────────────────────────────────────────

type CreateFarmerRequest struct {
	FarmerCode string  `json:"farmer_code" validate:"required"`
	FullName   string  `json:"full_name"   validate:"required"`
	NationalID *string `json:"national_id"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	BankName   *string `json:"bank_name"`
	BankAccNo  *string `json:"bank_account_number"`
}

type UpdateFarmerRequest struct {
	FullName   *string `json:"full_name"`
	NationalID *string `json:"national_id"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	BankName   *string `json:"bank_name"`
	BankAccNo  *string `json:"bank_account_number"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ─── Manufacturers ───────────────────────────────────────────────────────────

type CreateManufacturerRequest struct {
	ManufacturerCode string  `json:"manufacturer_code" validate:"required"`
	CompanyName      string  `json:"company_name"      validate:"required"`
	ContactPerson    *string `json:"contact_person"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email" validate:"omitempty,email"`
	Address          *string `json:"address"`
}

type UpdateManufacturerRequest struct {
	CompanyName   *string `json:"company_name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Address       *string `json:"address"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ─── Products ────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	ProductCode string `json:"product_code" validate:"required"`
	ProductName string `json:"product_name" validate:"required"`
	ProductType string `json:"product_type" validate:"required"`
	Variety     string `json:"variety"      validate:"required"`
}

type UpdateProductRequest struct {
	ProductName *string `json:"product_name"`
	ProductType *string `json:"product_type"`
	Variety     *string `json:"variety"`
	IsActive    *bool   `json:"is_active"`
}

// ─── Grades ──────────────────────────────────────────────────────────────────

type CreateGradeRequest struct {
	GradeCode        string          `json:"grade_code" validate:"required"`
	GradeName        string          `json:"grade_name" validate:"required"`
	Description      *string         `json:"description"`
	MinMoisture      decimal.Decimal `json:"min_moisture_content" validate:"min=0,max=100"`
	MaxMoisture      decimal.Decimal `json:"max_moisture_content" validate:"min=0,max=100"`
	MaxForeignMatter decimal.Decimal `json:"max_foreign_matter"   validate:"min=0,max=100"`
	DisplayOrder     int             `json:"display_order"`
}

type UpdateGradeRequest struct {
	GradeName        *string          `json:"grade_name"`
	Description      *string          `json:"description"`
	MinMoisture      *decimal.Decimal `json:"min_moisture_content"`
	MaxMoisture      *decimal.Decimal `json:"max_moisture_content"`
	MaxForeignMatter *decimal.Decimal `json:"max_foreign_matter"`
	DisplayOrder     *int             `json:"display_order"`
	IsActive         *bool            `json:"is_active"`
}

// FromGrade maps a grade row for responses; grades are small enough to expose
// the model shape directly elsewhere.
func FromGrade(g *model.Grade) map[string]interface{} {
	return map[string]interface{}{
		"grade_id":             g.ID.String(),
		"grade_code":           g.GradeCode,
		"grade_name":           g.GradeName,
		"min_moisture_content": g.MinMoisture,
		"max_moisture_content": g.MaxMoisture,
		"max_foreign_matter":   g.MaxForeignMatter,
		"display_order":        g.DisplayOrder,
		"is_active":            g.IsActive,
	}
}
