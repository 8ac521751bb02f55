package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"loan-simulator/domain"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists companies and simulation history in one SQLite file.
// It implements CompanyRepository and SimulationRepository.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const companyColumns = `id, name, code, tax_id, basic_interest_rate, last_updated, country,
	address_street, address_number, address_complement, address_neighborhood,
	address_city, address_state, address_zipcode, contact_phone, contact_email, website_url`

func (s *SQLiteStore) Create(ctx context.Context, c domain.FinanceCompany) (domain.FinanceCompany, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO finance_companies (
		name, code, tax_id, basic_interest_rate, last_updated, country,
		address_street, address_number, address_complement, address_neighborhood,
		address_city, address_state, address_zipcode, contact_phone, contact_email, website_url
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Code, c.TaxID, c.BasicInterestRate, c.LastUpdated.Format(dateLayout), c.Country,
		c.AddressStreet, c.AddressNumber, c.AddressComplement, c.AddressNeighborhood,
		c.AddressCity, c.AddressState, c.AddressZipcode, c.ContactPhone, c.ContactEmail, c.WebsiteURL,
	)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed: finance_companies.code"):
			return domain.FinanceCompany{}, ErrDuplicateCode
		case strings.Contains(msg, "UNIQUE constraint failed: finance_companies.tax_id"):
			return domain.FinanceCompany{}, ErrDuplicateTaxID
		}
		return domain.FinanceCompany{}, fmt.Errorf("insert finance company: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.FinanceCompany{}, fmt.Errorf("read inserted id: %w", err)
	}
	c.ID = id
	return c, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.FinanceCompany, error) {
	return s.getOne(ctx, "id = ?", id)
}

func (s *SQLiteStore) GetByCode(ctx context.Context, code string) (domain.FinanceCompany, error) {
	return s.getOne(ctx, "code = ?", code)
}

func (s *SQLiteStore) GetByTaxID(ctx context.Context, taxID string) (domain.FinanceCompany, error) {
	return s.getOne(ctx, "tax_id = ?", taxID)
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg any) (domain.FinanceCompany, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+companyColumns+" FROM finance_companies WHERE "+where, arg)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FinanceCompany{}, ErrCompanyNotFound
	}
	if err != nil {
		return domain.FinanceCompany{}, fmt.Errorf("get finance company: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) List(ctx context.Context, order domain.CompanySort) ([]domain.FinanceCompany, error) {
	orderBy := "name COLLATE NOCASE, id"
	if order == domain.SortByRate {
		orderBy = "basic_interest_rate, name COLLATE NOCASE, id"
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+companyColumns+" FROM finance_companies ORDER BY "+orderBy)
	if err != nil {
		return nil, fmt.Errorf("list finance companies: %w", err)
	}
	defer rows.Close()

	var out []domain.FinanceCompany
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finance company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM finance_companies").Scan(&n); err != nil {
		return 0, fmt.Errorf("count finance companies: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (domain.FinanceCompany, error) {
	var (
		c           domain.FinanceCompany
		lastUpdated string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.TaxID, &c.BasicInterestRate, &lastUpdated, &c.Country,
		&c.AddressStreet, &c.AddressNumber, &c.AddressComplement, &c.AddressNeighborhood,
		&c.AddressCity, &c.AddressState, &c.AddressZipcode, &c.ContactPhone, &c.ContactEmail, &c.WebsiteURL,
	)
	if err != nil {
		return c, err
	}
	c.LastUpdated, err = time.Parse(dateLayout, lastUpdated)
	if err != nil {
		return c, fmt.Errorf("parse last_updated %q: %w", lastUpdated, err)
	}
	return c, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sim domain.Simulation) (int64, error) {
	schedule, err := json.Marshal(sim.Result.Schedule)
	if err != nil {
		return 0, fmt.Errorf("encode schedule: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO simulations (
		company_id, company_name, principal, annual_rate_percent, term_years, extra_amortization,
		months, total_interest, total_principal, total_paid, schedule_json, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sim.CompanyID, sim.CompanyName,
		sim.Input.Principal, sim.Input.AnnualInterestRatePercent, sim.Input.TermYears, sim.Input.ExtraAmortization,
		sim.Result.Months(), sim.Result.TotalInterest, sim.Result.TotalPrincipal, sim.Result.TotalPaid,
		string(schedule), sim.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert simulation: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.Simulation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, company_id, company_name, principal, annual_rate_percent,
		term_years, extra_amortization, total_interest, total_principal, total_paid, schedule_json, created_at
		FROM simulations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	defer rows.Close()

	var out []domain.Simulation
	for rows.Next() {
		var (
			sim       domain.Simulation
			schedule  string
			createdAt string
		)
		if err := rows.Scan(
			&sim.ID, &sim.CompanyID, &sim.CompanyName,
			&sim.Input.Principal, &sim.Input.AnnualInterestRatePercent, &sim.Input.TermYears, &sim.Input.ExtraAmortization,
			&sim.Result.TotalInterest, &sim.Result.TotalPrincipal, &sim.Result.TotalPaid,
			&schedule, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan simulation: %w", err)
		}
		if err := json.Unmarshal([]byte(schedule), &sim.Result.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule of simulation %d: %w", sim.ID, err)
		}
		if sim.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		out = append(out, sim)
	}
	return out, rows.Err()
}
