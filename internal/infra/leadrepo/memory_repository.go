package leadrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jedalosa/energymatch/internal/domain/catalog"
)

// MemoryRepository keeps leads in process memory, newest first. Seeded with
// the demo rows the provider dashboard has always shown.
type MemoryRepository struct {
	mu    sync.RWMutex
	leads []catalog.Lead
}

// NewMemoryRepository constructs a seeded repository.
func NewMemoryRepository() *MemoryRepository {
	now := time.Now().UTC()
	return &MemoryRepository{
		leads: []catalog.Lead{
			{
				ID:             uuid.New(),
				ClientName:     "Hotel Las Américas",
				ClientType:     "company",
				ConsumptionKWh: 4500,
				Status:         catalog.LeadStatusNew,
				CreatedAt:      now.Add(-2 * time.Hour),
			},
			{
				ID:             uuid.New(),
				ClientName:     "Familia Rodríguez",
				ClientType:     "home",
				ConsumptionKWh: 450,
				Status:         catalog.LeadStatusPending,
				CreatedAt:      now.Add(-26 * time.Hour),
			},
		},
	}
}

// Record prepends the lead.
func (r *MemoryRepository) Record(_ context.Context, lead catalog.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append([]catalog.Lead{lead}, r.leads...)
	return nil
}

// ListRecent returns up to limit leads, newest first.
func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]catalog.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.leads) {
		limit = len(r.leads)
	}
	out := make([]catalog.Lead, limit)
	copy(out, r.leads[:limit])
	return out, nil
}

var _ catalog.LeadRepository = (*MemoryRepository)(nil)
