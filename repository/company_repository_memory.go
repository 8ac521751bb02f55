package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"loan-simulator/domain"
)

type CompanyRepositoryMemory struct {
	mu     sync.RWMutex
	byID   map[int64]domain.FinanceCompany
	nextID int64
}

func NewCompanyRepositoryMemory() *CompanyRepositoryMemory {
	return &CompanyRepositoryMemory{
		byID:   make(map[int64]domain.FinanceCompany),
		nextID: 1,
	}
}

func (r *CompanyRepositoryMemory) Create(_ context.Context, c domain.FinanceCompany) (domain.FinanceCompany, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Code == c.Code {
			return domain.FinanceCompany{}, ErrDuplicateCode
		}
		if existing.TaxID == c.TaxID {
			return domain.FinanceCompany{}, ErrDuplicateTaxID
		}
	}

	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = c
	return c, nil
}

func (r *CompanyRepositoryMemory) GetByID(_ context.Context, id int64) (domain.FinanceCompany, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return domain.FinanceCompany{}, ErrCompanyNotFound
	}
	return c, nil
}

func (r *CompanyRepositoryMemory) GetByCode(_ context.Context, code string) (domain.FinanceCompany, error) {
	return r.find(func(c domain.FinanceCompany) bool { return c.Code == code })
}

func (r *CompanyRepositoryMemory) GetByTaxID(_ context.Context, taxID string) (domain.FinanceCompany, error) {
	return r.find(func(c domain.FinanceCompany) bool { return c.TaxID == taxID })
}

func (r *CompanyRepositoryMemory) find(match func(domain.FinanceCompany) bool) (domain.FinanceCompany, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if match(c) {
			return c, nil
		}
	}
	return domain.FinanceCompany{}, ErrCompanyNotFound
}

func (r *CompanyRepositoryMemory) List(_ context.Context, order domain.CompanySort) ([]domain.FinanceCompany, error) {
	r.mu.RLock()
	out := make([]domain.FinanceCompany, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if order == domain.SortByRate && out[i].BasicInterestRate != out[j].BasicInterestRate {
			return out[i].BasicInterestRate < out[j].BasicInterestRate
		}
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CompanyRepositoryMemory) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
