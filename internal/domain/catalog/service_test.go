package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDirectoryReturnsThreeProviders(t *testing.T) {
	svc := NewService(&stubLeads{}, newTestLogger())

	providers := svc.Directory(context.Background())
	require.Len(t, providers, 3)
	require.Equal(t, "SolarCaribe Pro", providers[0].Name)
	require.True(t, providers[0].Verified)
	require.Equal(t, "EcoEnergy Cartagena", providers[1].Name)
	require.Equal(t, "Ingeniería Sostenible SAS", providers[2].Name)
	require.False(t, providers[2].Verified)

	// Mutating the returned slice must not leak into the directory.
	providers[0].Name = "changed"
	require.Equal(t, "SolarCaribe Pro", svc.Directory(context.Background())[0].Name)
}

func TestProviderDashboardLayersRecentLeads(t *testing.T) {
	recent := []Lead{
		{ID: uuid.New(), ClientName: "Hotel Las Américas", Status: LeadStatusNew, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), ClientName: "Familia Rodríguez", Status: LeadStatusPending, CreatedAt: time.Now().UTC()},
	}
	svc := NewService(&stubLeads{recent: recent}, newTestLogger())

	dash := svc.ProviderDashboard(context.Background())
	require.Equal(t, 26, dash.Leads)
	require.Equal(t, 4.8, dash.Rating)
	require.Equal(t, 8, dash.ActiveProjects)
	require.Equal(t, recent, dash.Recent)
}

func TestProviderDashboardSurvivesRepositoryFailure(t *testing.T) {
	svc := NewService(&stubLeads{err: errors.New("connection refused")}, newTestLogger())

	dash := svc.ProviderDashboard(context.Background())
	require.Equal(t, 24, dash.Leads)
	require.Empty(t, dash.Recent)
}

func TestAdminDashboardFigures(t *testing.T) {
	svc := NewService(&stubLeads{}, newTestLogger())

	dash := svc.AdminDashboard(context.Background())
	require.Equal(t, 1240, dash.TotalUsers)
	require.Equal(t, 45, dash.Providers)
	require.Equal(t, 850.5, dash.CO2SavedTons)
	require.Equal(t, "$2.5B", dash.VolumeTraded)
	require.Equal(t, 3, dash.PendingReviews)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubLeads struct {
	recent []Lead
	err    error
}

func (s *stubLeads) Record(context.Context, Lead) error {
	return nil
}

func (s *stubLeads) ListRecent(context.Context, int) ([]Lead, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recent, nil
}
