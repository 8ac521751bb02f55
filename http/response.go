package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"loan-simulator/domain"
	"loan-simulator/logging"
	"loan-simulator/service"
)

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields,omitempty"`
}

type scheduleRowResponse struct {
	Month     int    `json:"month"`
	Payment   string `json:"payment"`
	Interest  string `json:"interest"`
	Principal string `json:"principal"`
	Balance   string `json:"balance"`
}

type simulationResponse struct {
	ID                        int64                 `json:"id,omitempty"`
	CompanyID                 int64                 `json:"company_id"`
	CompanyName               string                `json:"company_name"`
	Principal                 string                `json:"principal"`
	AnnualInterestRatePercent float64               `json:"annual_interest_rate_percent"`
	TermYears                 int                   `json:"years"`
	ExtraAmortization         string                `json:"extra_amortization"`
	Months                    int                   `json:"months"`
	FirstPayment              string                `json:"first_payment"`
	TotalInterest             string                `json:"total_interest"`
	TotalPrincipal            string                `json:"total_principal"`
	TotalPaid                 string                `json:"total_paid"`
	CreatedAt                 time.Time             `json:"created_at"`
	Schedule                  []scheduleRowResponse `json:"schedule,omitempty"`
}

type companyResponse struct {
	domain.FinanceCompany
	LastUpdated       string `json:"last_updated"`
	PreApprovedAmount string `json:"pre_approved_amount"`
}

// money renders an amount rounded half away from zero to cents.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func newSimulationResponse(sim domain.Simulation, withSchedule bool) simulationResponse {
	resp := simulationResponse{
		ID:                        sim.ID,
		CompanyID:                 sim.CompanyID,
		CompanyName:               sim.CompanyName,
		Principal:                 money(sim.Input.Principal),
		AnnualInterestRatePercent: sim.Input.AnnualInterestRatePercent,
		TermYears:                 sim.Input.TermYears,
		ExtraAmortization:         money(sim.Input.ExtraAmortization),
		Months:                    sim.Result.Months(),
		FirstPayment:              money(0),
		TotalInterest:             money(sim.Result.TotalInterest),
		TotalPrincipal:            money(sim.Result.TotalPrincipal),
		TotalPaid:                 money(sim.Result.TotalPaid),
		CreatedAt:                 sim.CreatedAt,
	}
	if len(sim.Result.Schedule) > 0 {
		resp.FirstPayment = money(sim.Result.Schedule[0].Payment)
	}
	if withSchedule {
		resp.Schedule = make([]scheduleRowResponse, len(sim.Result.Schedule))
		for i, row := range sim.Result.Schedule {
			resp.Schedule[i] = scheduleRowResponse{
				Month:     row.Month,
				Payment:   money(row.Payment),
				Interest:  money(row.Interest),
				Principal: money(row.Principal),
				Balance:   money(row.Balance),
			}
		}
	}
	return resp
}

func newCompanyResponse(c domain.FinanceCompany) companyResponse {
	return companyResponse{
		FinanceCompany:    c,
		LastUpdated:       c.LastUpdated.Format(time.DateOnly),
		PreApprovedAmount: money(domain.PreApprovedAmount(c.BasicInterestRate)),
	}
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Error encoding response",
			logging.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "Error writing response",
			logging.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}
