package events

import (
	"encoding/json"
	"time"

	"loan-simulator/domain"
)

// SimulationCompleted is published after a simulation has been computed
// and stored. It carries the summary only; consumers that need the
// schedule fetch it by SimulationID.
type SimulationCompleted struct {
	SimulationID      int64     `json:"simulation_id"`
	CompanyID         int64     `json:"company_id"`
	Principal         float64   `json:"principal"`
	AnnualRatePercent float64   `json:"annual_rate_percent"`
	TermYears         int       `json:"term_years"`
	ExtraAmortization float64   `json:"extra_amortization"`
	Months            int       `json:"months"`
	TotalInterest     float64   `json:"total_interest"`
	TotalPaid         float64   `json:"total_paid"`
	Timestamp         time.Time `json:"timestamp"`
}

// NewSimulationCompleted summarizes sim.
func NewSimulationCompleted(sim domain.Simulation) SimulationCompleted {
	return SimulationCompleted{
		SimulationID:      sim.ID,
		CompanyID:         sim.CompanyID,
		Principal:         sim.Input.Principal,
		AnnualRatePercent: sim.Input.AnnualInterestRatePercent,
		TermYears:         sim.Input.TermYears,
		ExtraAmortization: sim.Input.ExtraAmortization,
		Months:            sim.Result.Months(),
		TotalInterest:     sim.Result.TotalInterest,
		TotalPaid:         sim.Result.TotalPaid,
		Timestamp:         time.Now(),
	}
}

func (m SimulationCompleted) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SimulationCompletedFromJSON(data []byte) (SimulationCompleted, error) {
	var msg SimulationCompleted
	err := json.Unmarshal(data, &msg)
	return msg, err
}
