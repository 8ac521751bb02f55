package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"loan-simulator/domain"
	"loan-simulator/logging"
	"loan-simulator/repository"
)

var (
	ErrCompanyNotFound = repository.ErrCompanyNotFound
	ErrDuplicateCode   = repository.ErrDuplicateCode
	ErrDuplicateTaxID  = repository.ErrDuplicateTaxID
)

type CompanyService struct {
	repo     repository.CompanyRepository
	logger   *logging.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewCompanyService(repo repository.CompanyRepository, logger *logging.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		logger:   logger.WithComponent(logging.ComponentCompany),
		validate: newValidator(),
		now:      time.Now,
	}
}

// AddCompany validates and registers a new finance company. Code and tax id
// must not already be in use.
func (s *CompanyService) AddCompany(ctx context.Context, in domain.NewCompany) (domain.FinanceCompany, error) {
	in = trimCompany(in)
	if err := validateStruct(s.validate, in); err != nil {
		return domain.FinanceCompany{}, err
	}

	if _, err := s.repo.GetByCode(ctx, in.Code); err == nil {
		s.logger.WarnContext(ctx, "Rejected company with duplicate code", logging.FieldCompanyCode, in.Code)
		return domain.FinanceCompany{}, ErrDuplicateCode
	} else if !errors.Is(err, ErrCompanyNotFound) {
		return domain.FinanceCompany{}, fmt.Errorf("check company code: %w", err)
	}

	if _, err := s.repo.GetByTaxID(ctx, in.TaxID); err == nil {
		s.logger.WarnContext(ctx, "Rejected company with duplicate tax id", logging.FieldCompanyCode, in.Code)
		return domain.FinanceCompany{}, ErrDuplicateTaxID
	} else if !errors.Is(err, ErrCompanyNotFound) {
		return domain.FinanceCompany{}, fmt.Errorf("check company tax id: %w", err)
	}

	created, err := s.repo.Create(ctx, companyFromInput(in, s.today()))
	if err != nil {
		return domain.FinanceCompany{}, err
	}

	s.logger.InfoContext(ctx, "Finance company added",
		logging.FieldOperation, logging.OpCreate,
		logging.FieldCompanyID, created.ID,
		logging.FieldCompanyCode, created.Code)
	return created, nil
}

func (s *CompanyService) ListCompanies(ctx context.Context, sort domain.CompanySort) ([]domain.FinanceCompany, error) {
	companies, err := s.repo.List(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id int64) (domain.FinanceCompany, error) {
	return s.repo.GetByID(ctx, id)
}

// SeedDefaults adds the sample institutions when the catalogue is empty and
// returns how many were inserted.
func (s *CompanyService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	today := s.today()
	for _, in := range defaultCompanies {
		if _, err := s.repo.Create(ctx, companyFromInput(in, today)); err != nil {
			return 0, fmt.Errorf("seed company %s: %w", in.Code, err)
		}
	}
	s.logger.InfoContext(ctx, "Seeded sample finance companies",
		logging.FieldOperation, logging.OpSeed, "count", len(defaultCompanies))
	return len(defaultCompanies), nil
}

func (s *CompanyService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trimCompany(in domain.NewCompany) domain.NewCompany {
	for _, p := range []*string{
		&in.Name, &in.TaxID, &in.Code, &in.Country,
		&in.AddressStreet, &in.AddressNumber, &in.AddressComplement, &in.AddressNeighborhood,
		&in.AddressCity, &in.AddressState, &in.AddressZipcode,
		&in.ContactPhone, &in.ContactEmail, &in.WebsiteURL,
	} {
		*p = strings.TrimSpace(*p)
	}
	return in
}

func companyFromInput(in domain.NewCompany, lastUpdated time.Time) domain.FinanceCompany {
	return domain.FinanceCompany{
		Name:                in.Name,
		Code:                in.Code,
		TaxID:               in.TaxID,
		BasicInterestRate:   in.BasicInterestRate,
		LastUpdated:         lastUpdated,
		Country:             in.Country,
		AddressStreet:       in.AddressStreet,
		AddressNumber:       in.AddressNumber,
		AddressComplement:   in.AddressComplement,
		AddressNeighborhood: in.AddressNeighborhood,
		AddressCity:         in.AddressCity,
		AddressState:        in.AddressState,
		AddressZipcode:      in.AddressZipcode,
		ContactPhone:        in.ContactPhone,
		ContactEmail:        in.ContactEmail,
		WebsiteURL:          in.WebsiteURL,
	}
}

var defaultCompanies = []domain.NewCompany{
	{
		Name: "Banco Alpha", Code: "BA001", TaxID: "01.234.567/0001-89", BasicInterestRate: 1.2,
		Country: "Brasil", AddressStreet: "Rua A", AddressNumber: "123", AddressNeighborhood: "Centro",
		AddressCity: "São Paulo", AddressState: "SP", AddressZipcode: "01000-000",
		ContactPhone: "+5511987654321", ContactEmail: "contato@alpha.com", WebsiteURL: "https://www.bancoalpha.com",
	},
	{
		Name: "CrediBeta", Code: "CB002", TaxID: "98.765.432/0001-21", BasicInterestRate: 1.5,
		Country: "Brasil", AddressStreet: "Av. B", AddressNumber: "456", AddressNeighborhood: "Jardins",
		AddressCity: "Rio de Janeiro", AddressState: "RJ", AddressZipcode: "20000-000",
		ContactPhone: "+5521912345678", ContactEmail: "contato@credibeta.com", WebsiteURL: "https://www.credibeta.com",
	},
	{
		Name: "FinanGamma", Code: "FG003", TaxID: "11.222.333/0001-44", BasicInterestRate: 1.0,
		Country: "Brasil", AddressStreet: "Rua C", AddressNumber: "789", AddressNeighborhood: "Savassi",
		AddressCity: "Belo Horizonte", AddressState: "MG", AddressZipcode: "30000-000",
		ContactPhone: "+5531998765432", ContactEmail: "contato@fingamma.com", WebsiteURL: "https://www.finangamma.com",
	},
	{
		Name: "Empréstimos Delta", Code: "ED004", TaxID: "44.555.666/0001-77", BasicInterestRate: 1.8,
		Country: "Brasil", AddressStreet: "Av. D", AddressNumber: "101", AddressNeighborhood: "Asa Sul",
		AddressCity: "Brasília", AddressState: "DF", AddressZipcode: "70000-000",
		ContactPhone: "+5561954321098", ContactEmail: "contato@delta.com", WebsiteURL: "https://www.emprestimosdelta.com",
	},
}
