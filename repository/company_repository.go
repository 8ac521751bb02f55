package repository

import (
	"context"
	"errors"

	"loan-simulator/domain"
)

var (
	ErrCompanyNotFound = errors.New("finance company not found")
	ErrDuplicateCode   = errors.New("a finance company with this code already exists")
	ErrDuplicateTaxID  = errors.New("a finance company with this tax id already exists")
)

// CompanyRepository stores the finance-company catalogue. Code and TaxID
// are unique.
type CompanyRepository interface {
	Create(ctx context.Context, c domain.FinanceCompany) (domain.FinanceCompany, error)
	GetByID(ctx context.Context, id int64) (domain.FinanceCompany, error)
	GetByCode(ctx context.Context, code string) (domain.FinanceCompany, error)
	GetByTaxID(ctx context.Context, taxID string) (domain.FinanceCompany, error)
	List(ctx context.Context, sort domain.CompanySort) ([]domain.FinanceCompany, error)
	Count(ctx context.Context) (int, error)
}
