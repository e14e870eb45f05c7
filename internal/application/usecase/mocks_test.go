package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
	"github.com/minesafe/rockfall/pkg/events"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	mu       sync.Mutex
	saved    []*model.RiskAssessment
	saveFunc func(ctx context.Context, a *model.RiskAssessment) error
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.RiskAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.saved {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockAssessmentRepository) FindByMineID(_ context.Context, mineID string, limit, offset int) ([]*model.RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.RiskAssessment
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].MineID() == mineID {
			out = append(out, m.saved[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockAlertRepository struct {
	mu       sync.Mutex
	statuses []string
	alerts   map[uuid.UUID]*model.Alert
	order    []uuid.UUID
	saveErr  error
}

func (m *mockAlertRepository) Save(_ context.Context, a *model.Alert) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.alerts == nil {
		m.alerts = make(map[uuid.UUID]*model.Alert)
	}
	if _, ok := m.alerts[a.ID()]; !ok {
		m.order = append(m.order, a.ID())
	}
	m.alerts[a.ID()] = a
	m.statuses = append(m.statuses, a.Status().String())
	return nil
}

func (m *mockAlertRepository) FindRecentByMineID(_ context.Context, mineID string, limit int) ([]*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Alert
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		if a := m.alerts[m.order[i]]; a.MineID() == mineID {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockCatalog struct {
	mines     []*model.Mine
	searchErr error
}

func (m *mockCatalog) Get(_ context.Context, id string) (*model.Mine, error) {
	for _, mine := range m.mines {
		if mine.ID() == id {
			return mine, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockCatalog) Search(_ context.Context, query string) ([]*model.Mine, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var out []*model.Mine
	for _, mine := range m.mines {
		if mine.Matches(query) {
			out = append(out, mine)
		}
	}
	return out, nil
}

type mockEventPublisher struct {
	mu          sync.Mutex
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.EventType())
	}
	sort.Strings(out)
	return out
}

type mockNotifier struct {
	mu       sync.Mutex
	notified []*model.Alert
	err      error
}

func (m *mockNotifier) Notify(_ context.Context, a *model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, a)
	return m.err
}

type staticRecipients map[string]string

func (s staticRecipients) Recipient(ch valueobject.AlertChannel) (string, bool) {
	r, ok := s[ch.String()]
	return r, ok
}

func defaultRecipients() staticRecipients {
	return staticRecipients{
		"email": "safety@miningcompany.com",
		"sms":   "+1-555-0123",
		"call":  "+1-555-0456",
		"push":  "Mobile App Users",
	}
}

type fixedReadingSource struct {
	readings map[string]valueobject.Reading
	err      error
}

func (f *fixedReadingSource) Read(_ context.Context, mine *model.Mine) (valueobject.Reading, error) {
	if f.err != nil {
		return valueobject.Reading{}, f.err
	}
	r, ok := f.readings[mine.ID()]
	if !ok {
		return valueobject.Reading{}, fmt.Errorf("no sensor data for %s", mine.ID())
	}
	return r, nil
}

type memorySessions struct {
	mu     sync.Mutex
	states map[string]model.DashboardState
}

func (m *memorySessions) Load(_ context.Context, id string) (model.DashboardState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[id]; ok {
		return s, nil
	}
	return model.NewDashboardState(), nil
}

func (m *memorySessions) Store(_ context.Context, id string, s model.DashboardState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states == nil {
		m.states = make(map[string]model.DashboardState)
	}
	m.states[id] = s
	return nil
}

type recordingMetrics struct {
	mu          sync.Mutex
	assessments []string
	alerts      []string
	sweeps      int
}

func (r *recordingMetrics) AssessmentRecorded(_ context.Context, modelName, level string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments = append(r.assessments, modelName+":"+level)
}

func (r *recordingMetrics) AlertSettled(_ context.Context, channel, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, channel+":"+status)
}

func (r *recordingMetrics) SweepCompleted(context.Context, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
}

// --- Fixtures ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustReading(t require.TestingT, slope, vibration, rainfall, temperature float64) valueobject.Reading {
	r, err := valueobject.NewReading(slope, vibration, rainfall, temperature)
	require.NoError(t, err)
	return r
}

func testCatalog(t require.TestingT) *mockCatalog {
	newMine := func(id, name, location, kind string, status valueobject.MineStatus) *model.Mine {
		m, err := model.NewMine(id, name, location, kind, status, valueobject.Coordinates{Lat: 11, Lng: 77}, 300, 100)
		require.NoError(t, err)
		return m
	}
	return &mockCatalog{mines: []*model.Mine{
		newMine("1", "Karunya Open Pit Mine", "Tamil Nadu, India", "Iron Ore", valueobject.MineStatusActive),
		newMine("2", "Salem Steel Plant Mine", "Salem, Tamil Nadu", "Iron Ore", valueobject.MineStatusActive),
		newMine("4", "Hosur Granite Quarry", "Krishnagiri, Tamil Nadu", "Granite", valueobject.MineStatusUnderConstruction),
	}}
}

func ptr(v float64) *float64 { return &v }
