package domain

import (
	"math"
	"time"
)

const (
	preApprovedCeiling    = 500_000.0
	preApprovedFloor      = 10_000.0
	preApprovedRateFactor = 5_000.0
)

// FinanceCompany is an institution offering loans at a basic annual rate.
type FinanceCompany struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Code              string    `json:"code"`
	TaxID             string    `json:"tax_id"`
	BasicInterestRate float64   `json:"basic_interest_rate"`
	LastUpdated       time.Time `json:"last_updated"`

	Country             string `json:"country,omitempty"`
	AddressStreet       string `json:"address_street,omitempty"`
	AddressNumber       string `json:"address_number,omitempty"`
	AddressComplement   string `json:"address_complement,omitempty"`
	AddressNeighborhood string `json:"address_neighborhood,omitempty"`
	AddressCity         string `json:"address_city,omitempty"`
	AddressState        string `json:"address_state,omitempty"`
	AddressZipcode      string `json:"address_zipcode,omitempty"`
	ContactPhone        string `json:"contact_phone,omitempty"`
	ContactEmail        string `json:"contact_email,omitempty"`
	WebsiteURL          string `json:"website_url,omitempty"`
}

// PreApprovedAmount estimates a pre-approved loan amount: the lower the
// rate, the higher the amount, bounded to [10000, 500000].
func PreApprovedAmount(annualRatePercent float64) float64 {
	if math.IsNaN(annualRatePercent) {
		return preApprovedFloor
	}
	amount := preApprovedCeiling - annualRatePercent*preApprovedRateFactor
	return math.Max(preApprovedFloor, math.Min(amount, preApprovedCeiling))
}

// NewCompany carries the user-supplied fields for registering a company.
type NewCompany struct {
	Name              string  `json:"name" validate:"required,min=2,max=100,companyname"`
	TaxID             string  `json:"tax_id" validate:"required,min=14,max=18,taxid"`
	Code              string  `json:"code" validate:"required,companycode"`
	BasicInterestRate float64 `json:"basic_interest_rate" validate:"gte=0.1,lte=100"`
	Country           string  `json:"country" validate:"required,oneof=Brasil Portugal 'Estados Unidos' Canada Alemanha Espanha Franca Japao 'Reino Unido'"`

	AddressStreet       string `json:"address_street" validate:"max=200"`
	AddressNumber       string `json:"address_number" validate:"max=20"`
	AddressComplement   string `json:"address_complement" validate:"max=100"`
	AddressNeighborhood string `json:"address_neighborhood" validate:"max=100"`
	AddressCity         string `json:"address_city" validate:"max=100"`
	AddressState        string `json:"address_state" validate:"max=50"`
	AddressZipcode      string `json:"address_zipcode" validate:"max=20"`
	ContactPhone        string `json:"contact_phone" validate:"max=50"`
	ContactEmail        string `json:"contact_email" validate:"omitempty,email,max=120"`
	WebsiteURL          string `json:"website_url" validate:"omitempty,url,max=200"`
}

// CompanySort selects the catalogue ordering.
type CompanySort string

const (
	SortByName CompanySort = "name"
	SortByRate CompanySort = "rate"
)

// ParseCompanySort falls back to name ordering for anything unknown.
func ParseCompanySort(s string) CompanySort {
	if CompanySort(s) == SortByRate {
		return SortByRate
	}
	return SortByName
}
