// Package memory provides process-local repositories, used when no
// database is configured.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// AssessmentRepository keeps assessments in memory.
type AssessmentRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*model.RiskAssessment
	byMine map[string][]*model.RiskAssessment
}

var _ port.AssessmentRepository = (*AssessmentRepository)(nil)

// NewAssessmentRepository creates an empty repository.
func NewAssessmentRepository() *AssessmentRepository {
	return &AssessmentRepository{
		byID:   make(map[uuid.UUID]*model.RiskAssessment),
		byMine: make(map[string][]*model.RiskAssessment),
	}
}

// Save stores the assessment. Saving the same ID twice is a no-op.
func (r *AssessmentRepository) Save(_ context.Context, a *model.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID()]; ok {
		return nil
	}
	r.byID[a.ID()] = a
	r.byMine[a.MineID()] = append(r.byMine[a.MineID()], a)
	return nil
}

func (r *AssessmentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("assessment %s: %w", id, port.ErrNotFound)
	}
	return a, nil
}

// FindByMineID lists a mine's assessments, newest first. Assessments with
// the same timestamp keep reverse insertion order.
func (r *AssessmentRepository) FindByMineID(_ context.Context, mineID string, limit, offset int) ([]*model.RiskAssessment, error) {
	r.mu.RLock()
	history := slices.Clone(r.byMine[mineID])
	r.mu.RUnlock()

	slices.Reverse(history)
	slices.SortStableFunc(history, func(a, b *model.RiskAssessment) int {
		return b.AssessedAt().Compare(a.AssessedAt())
	})
	return page(history, limit, offset), nil
}

// AlertRepository keeps alerts in memory.
type AlertRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*model.Alert
	byMine map[string][]uuid.UUID
}

var _ port.AlertRepository = (*AlertRepository)(nil)

// NewAlertRepository creates an empty repository.
func NewAlertRepository() *AlertRepository {
	return &AlertRepository{
		byID:   make(map[uuid.UUID]*model.Alert),
		byMine: make(map[string][]uuid.UUID),
	}
}

// Save stores a snapshot of the alert. Once settled, a stored alert is not
// moved back to pending.
func (r *AlertRepository) Save(_ context.Context, a *model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[a.ID()]
	if ok && existing.Status() != valueobject.AlertStatusPending {
		return nil
	}
	if !ok {
		r.byMine[a.MineID()] = append(r.byMine[a.MineID()], a.ID())
	}
	r.byID[a.ID()] = snapshot(a)
	return nil
}

// FindRecentByMineID returns up to limit alerts for the mine, newest first.
func (r *AlertRepository) FindRecentByMineID(_ context.Context, mineID string, limit int) ([]*model.Alert, error) {
	r.mu.RLock()
	ids := r.byMine[mineID]
	alerts := make([]*model.Alert, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		alerts = append(alerts, snapshot(r.byID[ids[i]]))
	}
	r.mu.RUnlock()

	slices.SortStableFunc(alerts, func(a, b *model.Alert) int {
		return cmp.Compare(b.CreatedAt().UnixNano(), a.CreatedAt().UnixNano())
	})
	return page(alerts, limit, 0), nil
}

func snapshot(a *model.Alert) *model.Alert {
	return model.ReconstructAlert(
		a.ID(), a.MineID(), a.Channel(), a.Recipient(), a.RiskLevel(), a.Message(),
		a.Status(), a.FailureReason(), a.CreatedAt(), a.SettledAt(),
	)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
