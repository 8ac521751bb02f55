package domain

import "time"

const MonthsPerYear = 12

// LoanInput holds the four engine parameters for one schedule computation.
type LoanInput struct {
	Principal                 float64 `json:"principal"`
	AnnualInterestRatePercent float64 `json:"annual_interest_rate_percent"`
	TermYears                 int     `json:"term_years"`
	ExtraAmortization         float64 `json:"extra_amortization"`
}

// TotalMonths is the contractual number of installments.
func (in LoanInput) TotalMonths() int {
	return in.TermYears * MonthsPerYear
}

type ScheduleRow struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

type AmortizationResult struct {
	Schedule       []ScheduleRow `json:"schedule"`
	TotalInterest  float64       `json:"total_interest"`
	TotalPrincipal float64       `json:"total_principal"`
	TotalPaid      float64       `json:"total_paid"`
}

// Months returns how many installments were actually paid.
func (r AmortizationResult) Months() int {
	return len(r.Schedule)
}

// SimulationRequest is what a client submits to simulate a loan with a
// given finance company. The rate comes from the company record.
type SimulationRequest struct {
	CompanyID         int64   `json:"company_id" validate:"required,gt=0"`
	Principal         float64 `json:"principal" validate:"gte=100,lte=1000000"`
	TermYears         int     `json:"years" validate:"gte=1,lte=30"`
	ExtraAmortization float64 `json:"extra_amortization" validate:"gte=0"`
}

// Simulation is a computed schedule tied to the company whose rate was used.
type Simulation struct {
	ID          int64              `json:"id"`
	CompanyID   int64              `json:"company_id"`
	CompanyName string             `json:"company_name"`
	Input       LoanInput          `json:"input"`
	Result      AmortizationResult `json:"result"`
	CreatedAt   time.Time          `json:"created_at"`
}
