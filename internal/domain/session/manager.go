package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jedalosa/energymatch/internal/domain/advisor"
	"github.com/jedalosa/energymatch/internal/domain/billscan"
	"github.com/jedalosa/energymatch/internal/domain/catalog"
	"github.com/jedalosa/energymatch/internal/domain/profile"
	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

// Geolocator performs the one-shot device coordinate read.
type Geolocator interface {
	Locate(ctx context.Context) (profile.Location, error)
}

// Notifier forwards a finished analysis to the automation webhook.
type Notifier interface {
	Deliver(ctx context.Context, p profile.Profile, recs []advisor.Recommendation) error
}

// View is the snapshot returned to the transport layer.
type View struct {
	ID         uuid.UUID          `json:"id"`
	Step       profile.Step       `json:"step"`
	BillChoice profile.BillChoice `json:"billChoice"`
	Profile    profile.Profile    `json:"profile"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type session struct {
	id        uuid.UUID
	mu        sync.Mutex
	wizard    *profile.Wizard
	recs      []advisor.Recommendation
	createdAt time.Time
}

// Manager owns every active client session: one wizard, one profile and at
// most one recommendation batch per session, no ambient globals.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	advisor  advisor.Service
	analyzer billscan.Service
	notifier Notifier
	store    profile.Store
	geo      Geolocator
	leads    catalog.LeadRepository
	logger   *slog.Logger
	strict   bool
}

// NewManager wires up the session registry.
func NewManager(
	advisorSvc advisor.Service,
	analyzer billscan.Service,
	notifier Notifier,
	store profile.Store,
	geo Geolocator,
	leads catalog.LeadRepository,
	strictConsumption bool,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*session),
		advisor:  advisorSvc,
		analyzer: analyzer,
		notifier: notifier,
		store:    store,
		geo:      geo,
		leads:    leads,
		logger:   logger.With("component", "session.manager"),
		strict:   strictConsumption,
	}
}

// Start creates a fresh client session.
func (m *Manager) Start() View {
	s := &session{
		id:        uuid.New(),
		wizard:    profile.NewWizard(m.strict),
		createdAt: time.Now().UTC(),
	}
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s.view()
}

// End discards a session and everything it owns.
func (m *Manager) End(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Get returns the current session snapshot.
func (m *Manager) Get(id uuid.UUID) (View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// UpdateProfile applies a sparse profile patch through the wizard rules.
func (m *Manager) UpdateProfile(id uuid.UUID, u profile.Update) (View, error) {
	return m.mutate(id, func(s *session) error {
		return s.wizard.UpdateProfile(u)
	})
}

// ChooseBill records the tri-state bill branch.
func (m *Manager) ChooseBill(id uuid.UUID, choice profile.BillChoice) (View, error) {
	return m.mutate(id, func(s *session) error {
		return s.wizard.ChooseBill(choice)
	})
}

// AnalyzeBill runs the uploaded document through the analyzer and applies the
// best-effort extract to the profile.
func (m *Manager) AnalyzeBill(ctx context.Context, id uuid.UUID, doc billscan.Document) (billscan.Extract, error) {
	s, err := m.lookup(id)
	if err != nil {
		return billscan.Extract{}, err
	}

	// The document never leaves the process unless the user picked the
	// upload branch.
	s.mu.Lock()
	choice := s.wizard.BillChoice()
	s.mu.Unlock()
	if choice != profile.BillChoiceYes {
		return billscan.Extract{}, apperrors.Wrap(apperrors.CodeWizardState, "bill upload branch not selected", nil)
	}

	// The outbound call happens outside the session lock; the document is
	// dropped as soon as the request completes.
	extract := m.analyzer.Analyze(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wizard.ApplyBillExtract(extract.Consumption, extract.Cost, extract.Rate, extract.HasPeaks); err != nil {
		return billscan.Extract{}, err
	}
	return extract, nil
}

// Advance moves the wizard forward one step.
func (m *Manager) Advance(id uuid.UUID) (View, error) {
	return m.mutate(id, func(s *session) error {
		return s.wizard.Advance()
	})
}

// Retreat moves the wizard back one step.
func (m *Manager) Retreat(id uuid.UUID) (View, error) {
	return m.mutate(id, func(s *session) error {
		return s.wizard.Retreat()
	})
}

// CaptureLocation performs the one-shot geolocation read. Failure is surfaced
// but mutates nothing.
func (m *Manager) CaptureLocation(ctx context.Context, id uuid.UUID) (View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}
	loc, err := m.geo.Locate(ctx)
	if err != nil {
		m.logger.Warn("geolocation capture failed", "session", id, "error", err)
		return View{}, apperrors.Wrap(apperrors.CodeGeoError, "could not read device location", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.CaptureLocation(loc.Lat, loc.Lng)
	return s.view(), nil
}

// SaveProfile serializes the live profile to the device store under its fixed
// key, fully overwriting any prior save.
func (m *Manager) SaveProfile(ctx context.Context, id uuid.UUID) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	p := s.wizard.Profile()
	s.mu.Unlock()
	if err := m.store.Save(ctx, p); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to save profile", err)
	}
	return nil
}

// RunAnalysis is the wizard's terminal action: generate offers, replace the
// batch atomically, then notify downstream, strictly in that order.
func (m *Manager) RunAnalysis(ctx context.Context, id uuid.UUID) (advisor.Results, error) {
	s, err := m.lookup(id)
	if err != nil {
		return advisor.Results{}, err
	}

	s.mu.Lock()
	if !s.wizard.CanAnalyze() {
		s.mu.Unlock()
		return advisor.Results{}, apperrors.Wrap(apperrors.CodeWizardState, "complete the wizard before generating the analysis", nil)
	}
	s.recs = nil
	p := s.wizard.Profile()
	s.mu.Unlock()

	recs := m.advisor.Generate(ctx, p)

	s.mu.Lock()
	s.recs = recs
	s.mu.Unlock()

	// Delivery is fire-and-forget and only after the offers resolved, so the
	// payload reflects what the user saw.
	if p.Email != "" {
		go m.deliver(p, recs)
	}

	return advisor.PresentResults(recs), nil
}

// Recommendations returns the presenter projection of the current batch.
func (m *Manager) Recommendations(id uuid.UUID) (advisor.Results, error) {
	s, err := m.lookup(id)
	if err != nil {
		return advisor.Results{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return advisor.PresentResults(s.recs), nil
}

func (m *Manager) deliver(p profile.Profile, recs []advisor.Recommendation) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := m.notifier.Deliver(ctx, p, recs); err != nil {
		m.logger.Warn("lead delivery failed", "error", err)
	}
	lead := catalog.Lead{
		ID:             uuid.New(),
		ClientName:     p.Name,
		Email:          p.Email,
		ClientType:     string(p.ClientType),
		ConsumptionKWh: p.MonthlyConsumptionKWh,
		Neighborhood:   p.Neighborhood,
		Status:         catalog.LeadStatusNew,
		CreatedAt:      time.Now().UTC(),
	}
	if err := m.leads.Record(ctx, lead); err != nil {
		m.logger.Warn("lead record failed", "error", err)
	}
}

func (m *Manager) lookup(id uuid.UUID) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeSessionUnknown, "unknown session", nil)
	}
	return s, nil
}

func (m *Manager) mutate(id uuid.UUID, fn func(*session) error) (View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

func (s *session) view() View {
	return View{
		ID:         s.id,
		Step:       s.wizard.Step(),
		BillChoice: s.wizard.BillChoice(),
		Profile:    s.wizard.Profile(),
		CreatedAt:  s.createdAt,
	}
}
