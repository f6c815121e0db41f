package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jedalosa/energymatch/internal/domain/advisor"
	"github.com/jedalosa/energymatch/internal/domain/billscan"
	"github.com/jedalosa/energymatch/internal/domain/catalog"
	"github.com/jedalosa/energymatch/internal/domain/profile"
	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

func TestStartGetEnd(t *testing.T) {
	m, _ := newManagerUnderTest(t)

	view := m.Start()
	require.NotEqual(t, uuid.Nil, view.ID)
	require.Equal(t, profile.StepConsumption, view.Step)
	require.Equal(t, profile.BillChoiceUnset, view.BillChoice)

	got, err := m.Get(view.ID)
	require.NoError(t, err)
	require.Equal(t, view.ID, got.ID)

	m.End(view.ID)
	_, err = m.Get(view.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeSessionUnknown))
}

func TestUnknownSession(t *testing.T) {
	m, _ := newManagerUnderTest(t)

	_, err := m.UpdateProfile(uuid.New(), profile.Update{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeSessionUnknown))

	_, err = m.RunAnalysis(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, apperrors.CodeSessionUnknown))
}

func TestSessionsAreIsolated(t *testing.T) {
	m, _ := newManagerUnderTest(t)

	first := m.Start()
	second := m.Start()

	_, err := m.ChooseBill(first.ID, profile.BillChoiceNo)
	require.NoError(t, err)
	_, err = m.UpdateProfile(first.ID, profile.Update{MonthlyConsumptionKWh: f64(3500)})
	require.NoError(t, err)

	got, err := m.Get(second.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, got.Profile.MonthlyConsumptionKWh)
	require.Equal(t, profile.BillChoiceUnset, got.BillChoice)
}

func TestRunAnalysisRequiresFinalStep(t *testing.T) {
	m, _ := newManagerUnderTest(t)
	view := m.Start()

	_, err := m.RunAnalysis(context.Background(), view.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))
}

func TestRunAnalysisStoresBatchAndNotifies(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	id := walkToResources(t, m, "maria@hotel.co")

	results, err := m.RunAnalysis(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, results.Recommendations, 1)
	require.Len(t, results.Chart, 1)
	require.NotEmpty(t, results.BatchHash)

	stored, err := m.Recommendations(id)
	require.NoError(t, err)
	require.Equal(t, results, stored)

	// Delivery happens after the batch resolved and carries the same offers.
	require.Eventually(t, func() bool {
		return stubs.notifier.calls() == 1 && stubs.leads.count() == 1
	}, time.Second, 10*time.Millisecond)

	delivered := stubs.notifier.last()
	require.Equal(t, "maria@hotel.co", delivered.profile.Email)
	require.Equal(t, results.Recommendations, delivered.recs)

	lead := stubs.leads.lastLead()
	require.Equal(t, "maria@hotel.co", lead.Email)
	require.Equal(t, catalog.LeadStatusNew, lead.Status)
}

func TestRunAnalysisSkipsDeliveryWithoutEmail(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	id := walkToResources(t, m, "")

	_, err := m.RunAnalysis(context.Background(), id)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, stubs.notifier.calls())
	require.Zero(t, stubs.leads.count())
}

func TestRunAnalysisReplacesPriorBatch(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	id := walkToResources(t, m, "")

	_, err := m.RunAnalysis(context.Background(), id)
	require.NoError(t, err)

	stubs.advisor.recs = []advisor.Recommendation{
		{ID: "rec_9", ProviderName: "EcoEnergy Cartagena", UpfrontCost: 9_000_000},
	}
	results, err := m.RunAnalysis(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, results.Recommendations, 1)
	require.Equal(t, "rec_9", results.Recommendations[0].ID)
}

func TestAnalyzeBillAppliesExtract(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	view := m.Start()
	stubs.analyzer.extract = billscan.Extract{Consumption: 850, Cost: 722500, Rate: 850, HasPeaks: true}

	_, err := m.ChooseBill(view.ID, profile.BillChoiceYes)
	require.NoError(t, err)

	extract, err := m.AnalyzeBill(context.Background(), view.ID, billscan.Document{Data: []byte("png"), MimeType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, stubs.analyzer.extract, extract)

	got, err := m.Get(view.ID)
	require.NoError(t, err)
	require.Equal(t, 850.0, got.Profile.MonthlyConsumptionKWh)
	require.True(t, got.Profile.HasPeakConsumption)
}

func TestAnalyzeBillRequiresUploadBranch(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	view := m.Start()

	_, err := m.AnalyzeBill(context.Background(), view.ID, billscan.Document{Data: []byte("png"), MimeType: "image/png"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))
	require.Zero(t, stubs.analyzer.calls)
}

func TestAnalyzeBillSkipsAnalyzerOnManualBranch(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	view := m.Start()

	_, err := m.ChooseBill(view.ID, profile.BillChoiceNo)
	require.NoError(t, err)

	_, err = m.AnalyzeBill(context.Background(), view.ID, billscan.Document{Data: []byte("png"), MimeType: "image/png"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeWizardState))
	require.Zero(t, stubs.analyzer.calls)
}

func TestCaptureLocationFailureMutatesNothing(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	view := m.Start()
	stubs.geo.err = errors.New("timeout")

	_, err := m.CaptureLocation(context.Background(), view.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeGeoError))

	got, err := m.Get(view.ID)
	require.NoError(t, err)
	require.Nil(t, got.Profile.Location)
}

func TestCaptureLocationSuccess(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	view := m.Start()
	stubs.geo.loc = profile.Location{Lat: 10.39, Lng: -75.51}

	got, err := m.CaptureLocation(context.Background(), view.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Profile.Location)
	require.Equal(t, 10.39, got.Profile.Location.Lat)
	require.Equal(t, "Detectado por GPS", got.Profile.Location.Address)
}

func TestSaveProfileOverwrites(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	view := m.Start()

	_, err := m.ChooseBill(view.ID, profile.BillChoiceNo)
	require.NoError(t, err)
	_, err = m.UpdateProfile(view.ID, profile.Update{Name: str("Primera")})
	require.NoError(t, err)
	require.NoError(t, m.SaveProfile(context.Background(), view.ID))

	_, err = m.UpdateProfile(view.ID, profile.Update{Name: str("Segunda")})
	require.NoError(t, err)
	require.NoError(t, m.SaveProfile(context.Background(), view.ID))

	saved, found, err := stubs.store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Segunda", saved.Name)
}

func TestSaveProfileWrapsStorageError(t *testing.T) {
	m, stubs := newManagerUnderTest(t)
	view := m.Start()
	stubs.store.saveErr = errors.New("connection reset")

	err := m.SaveProfile(context.Background(), view.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
}

func walkToResources(t *testing.T, m *Manager, email string) uuid.UUID {
	t.Helper()
	view := m.Start()

	_, err := m.ChooseBill(view.ID, profile.BillChoiceNo)
	require.NoError(t, err)
	update := profile.Update{MonthlyConsumptionKWh: f64(3500), Name: str("María")}
	if email != "" {
		update.Email = &email
	}
	_, err = m.UpdateProfile(view.ID, update)
	require.NoError(t, err)

	_, err = m.Advance(view.ID)
	require.NoError(t, err)
	_, err = m.Advance(view.ID)
	require.NoError(t, err)
	return view.ID
}

type managerStubs struct {
	advisor  *stubAdvisor
	analyzer *stubAnalyzer
	notifier *stubNotifier
	store    *stubStore
	geo      *stubGeolocator
	leads    *stubLeadRepository
}

func newManagerUnderTest(t *testing.T) (*Manager, *managerStubs) {
	t.Helper()
	stubs := &managerStubs{
		advisor: &stubAdvisor{recs: []advisor.Recommendation{
			{ID: "rec_1", ProviderName: "SolarCaribe Pro", UpfrontCost: 21_000_000, SavingsMonthly: 600_000},
		}},
		analyzer: &stubAnalyzer{},
		notifier: &stubNotifier{},
		store:    &stubStore{},
		geo:      &stubGeolocator{},
		leads:    &stubLeadRepository{},
	}
	m := NewManager(stubs.advisor, stubs.analyzer, stubs.notifier, stubs.store, stubs.geo, stubs.leads, false, newTestLogger())
	return m, stubs
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

type stubAdvisor struct {
	recs []advisor.Recommendation
}

func (s *stubAdvisor) Generate(context.Context, profile.Profile) []advisor.Recommendation {
	return s.recs
}

type stubAnalyzer struct {
	extract billscan.Extract
	calls   int
}

func (s *stubAnalyzer) Analyze(context.Context, billscan.Document) billscan.Extract {
	s.calls++
	return s.extract
}

type delivery struct {
	profile profile.Profile
	recs    []advisor.Recommendation
}

type stubNotifier struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (s *stubNotifier) Deliver(_ context.Context, p profile.Profile, recs []advisor.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, delivery{profile: p, recs: recs})
	return nil
}

func (s *stubNotifier) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliveries)
}

func (s *stubNotifier) last() delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliveries[len(s.deliveries)-1]
}

type stubStore struct {
	mu      sync.Mutex
	saved   profile.Profile
	has     bool
	saveErr error
}

func (s *stubStore) Save(_ context.Context, p profile.Profile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = p
	s.has = true
	return nil
}

func (s *stubStore) Load(context.Context) (profile.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved, s.has, nil
}

type stubGeolocator struct {
	loc profile.Location
	err error
}

func (s *stubGeolocator) Locate(context.Context) (profile.Location, error) {
	if s.err != nil {
		return profile.Location{}, s.err
	}
	return s.loc, nil
}

type stubLeadRepository struct {
	mu    sync.Mutex
	leads []catalog.Lead
}

func (s *stubLeadRepository) Record(_ context.Context, lead catalog.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, lead)
	return nil
}

func (s *stubLeadRepository) ListRecent(context.Context, int) ([]catalog.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Lead, len(s.leads))
	copy(out, s.leads)
	return out, nil
}

func (s *stubLeadRepository) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

func (s *stubLeadRepository) lastLead() catalog.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leads[len(s.leads)-1]
}
