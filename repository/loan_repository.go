package repository

import (
	"context"

	"loan-simulator/domain"
)

// SimulationRepository keeps a history of computed simulations.
type SimulationRepository interface {
	Save(ctx context.Context, sim domain.Simulation) (int64, error)
	Recent(ctx context.Context, limit int) ([]domain.Simulation, error)
}
