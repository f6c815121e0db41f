package catalog

import (
	"context"
	"log/slog"
)

const recentLeadLimit = 10

// Service serves the marketplace directory and the role dashboards.
type Service interface {
	Directory(ctx context.Context) []Provider
	ProviderDashboard(ctx context.Context) ProviderDashboard
	AdminDashboard(ctx context.Context) AdminDashboard
}

type service struct {
	leads  LeadRepository
	logger *slog.Logger
}

// NewService wires up the catalog domain.
func NewService(leads LeadRepository, logger *slog.Logger) Service {
	return &service{leads: leads, logger: logger.With("component", "catalog.service")}
}

func (s *service) Directory(_ context.Context) []Provider {
	out := make([]Provider, len(directory))
	copy(out, directory)
	return out
}

func (s *service) ProviderDashboard(ctx context.Context) ProviderDashboard {
	// Demo baseline figures; recorded leads are layered on top.
	dash := ProviderDashboard{
		Leads:          24,
		Rating:         4.8,
		ActiveProjects: 8,
	}
	recent, err := s.leads.ListRecent(ctx, recentLeadLimit)
	if err != nil {
		s.logger.Warn("listing recent leads failed", "error", err)
		return dash
	}
	dash.Recent = recent
	dash.Leads += len(recent)
	return dash
}

func (s *service) AdminDashboard(_ context.Context) AdminDashboard {
	return AdminDashboard{
		TotalUsers:     1240,
		Providers:      45,
		CO2SavedTons:   850.5,
		VolumeTraded:   "$2.5B",
		PendingReviews: 3,
	}
}

var directory = []Provider{
	{
		ID:               "1",
		Name:             "SolarCaribe Pro",
		Rating:           4.8,
		Verified:         true,
		Specialties:      []string{"Residencial", "PyME", "Certificado RETIE"},
		Certifications:   []string{"RETIE", "ISO 9001", "Bureau Veritas"},
		Zone:             "Costa Caribe",
		EnergyTypes:      []string{"Solar Fotovoltaica", "Eólica"},
		AdminPhone:       "+57 300 123 4567",
		AdminEmail:       "gerencia@solarcaribe.com",
		ContactPhone:     "+57 301 987 6543",
		ContactEmail:     "ventas@solarcaribe.com",
		Website:          "https://solarcaribe.pro",
		PricePerKW:       4_200_000,
		YearsExperience:  8,
		ServiceLocations: []string{"Cartagena", "Barranquilla", "Santa Marta"},
	},
	{
		ID:               "2",
		Name:             "EcoEnergy Cartagena",
		Rating:           4.5,
		Verified:         true,
		Specialties:      []string{"Industrial", "Eólica", "Mantenimiento"},
		Certifications:   []string{"RETIE"},
		Zone:             "Bolívar",
		EnergyTypes:      []string{"Solar Fotovoltaica"},
		ContactEmail:     "contacto@ecoenergy.co",
		PricePerKW:       4_500_000,
		YearsExperience:  5,
		ServiceLocations: []string{"Cartagena"},
	},
	{
		ID:               "3",
		Name:             "Ingeniería Sostenible SAS",
		Rating:           4.2,
		Verified:         false,
		Specialties:      []string{"Consultoría", "Diseño"},
		Zone:             "Bolívar",
		EnergyTypes:      []string{"Solar Fotovoltaica", "Híbrida"},
		ContactEmail:     "info@ingsostenible.co",
		PricePerKW:       3_900_000,
		YearsExperience:  3,
		ServiceLocations: []string{"Toda Colombia"},
	},
}
