package repository

import (
	"context"
	"sync"

	"loan-simulator/domain"
)

const defaultHistoryCapacity = 100

// SimulationRepositoryMemory keeps the most recent simulations in a fixed
// ring; once full, each Save overwrites the oldest entry.
type SimulationRepositoryMemory struct {
	mu     sync.RWMutex
	ring   []domain.Simulation
	next   int // slot for the next Save
	size   int
	nextID int64
}

// NewSimulationRepositoryMemory retains at most capacity simulations. A
// non-positive capacity selects the default of 100.
func NewSimulationRepositoryMemory(capacity int) *SimulationRepositoryMemory {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &SimulationRepositoryMemory{
		ring:   make([]domain.Simulation, capacity),
		nextID: 1,
	}
}

// Save stores the simulation and assigns it an id.
func (r *SimulationRepositoryMemory) Save(
	_ context.Context,
	sim domain.Simulation,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sim.ID = r.nextID
	r.nextID++

	r.ring[r.next] = sim
	r.next = (r.next + 1) % len(r.ring)
	if r.size < len(r.ring) {
		r.size++
	}
	return sim.ID, nil
}

// Recent returns up to limit simulations, newest first.
func (r *SimulationRepositoryMemory) Recent(_ context.Context, limit int) ([]domain.Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > r.size {
		limit = r.size
	}
	out := make([]domain.Simulation, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.ring)) % len(r.ring)
		out = append(out, r.ring[idx])
	}
	return out, nil
}

// Len reports how many simulations are retained.
func (r *SimulationRepositoryMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}
