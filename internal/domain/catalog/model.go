package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Provider is one marketplace directory entry. Static demo data until real
// provider onboarding lands.
type Provider struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Rating           float64  `json:"rating"`
	Verified         bool     `json:"verified"`
	Specialties      []string `json:"specialties"`
	Certifications   []string `json:"certifications"`
	Zone             string   `json:"zone"`
	EnergyTypes      []string `json:"energyTypes"`
	AdminPhone       string   `json:"adminPhone"`
	AdminEmail       string   `json:"adminEmail"`
	ContactPhone     string   `json:"contactPhone"`
	ContactEmail     string   `json:"contactEmail"`
	Website          string   `json:"website"`
	PricePerKW       float64  `json:"pricePerKW"`
	YearsExperience  int      `json:"yearsExperience"`
	ServiceLocations []string `json:"serviceLocations"`
}

// LeadStatus tracks where a quote request sits in the provider's queue.
type LeadStatus string

const (
	LeadStatusNew     LeadStatus = "new"
	LeadStatusPending LeadStatus = "pending"
)

// Lead is a client quote request surfaced on the provider dashboard.
type Lead struct {
	ID             uuid.UUID  `json:"id"`
	ClientName     string     `json:"clientName"`
	Email          string     `json:"email"`
	ClientType     string     `json:"clientType"`
	ConsumptionKWh float64    `json:"consumptionKWh"`
	Neighborhood   string     `json:"neighborhood"`
	Status         LeadStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// LeadRepository persists quote requests.
type LeadRepository interface {
	Record(ctx context.Context, lead Lead) error
	ListRecent(ctx context.Context, limit int) ([]Lead, error)
}

// ProviderDashboard is the provider portal summary view.
type ProviderDashboard struct {
	Leads          int     `json:"leads"`
	Rating         float64 `json:"rating"`
	ActiveProjects int     `json:"activeProjects"`
	Recent         []Lead  `json:"recent"`
}

// AdminDashboard is the platform-wide summary view.
type AdminDashboard struct {
	TotalUsers     int     `json:"totalUsers"`
	Providers      int     `json:"providers"`
	CO2SavedTons   float64 `json:"co2SavedTons"`
	VolumeTraded   string  `json:"volumeTraded"`
	PendingReviews int     `json:"pendingReviews"`
}
