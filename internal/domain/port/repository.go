package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
	"github.com/minesafe/rockfall/pkg/events"
)

// ErrNotFound is returned by lookups when nothing matches the given identifier.
var ErrNotFound = errors.New("not found")

// AssessmentRepository defines the persistence port for risk assessments.
type AssessmentRepository interface {
	// Save persists a scored assessment.
	Save(ctx context.Context, assessment *model.RiskAssessment) error

	// FindByID retrieves an assessment by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*model.RiskAssessment, error)

	// FindByMineID lists assessments for a mine, newest first.
	FindByMineID(ctx context.Context, mineID string, limit, offset int) ([]*model.RiskAssessment, error)
}

// AlertRepository defines the persistence port for alerts.
type AlertRepository interface {
	// Save inserts or updates an alert.
	Save(ctx context.Context, alert *model.Alert) error

	// FindRecentByMineID lists up to limit alerts for a mine, newest first.
	FindRecentByMineID(ctx context.Context, mineID string, limit int) ([]*model.Alert, error)
}

// MineCatalog is the read-only source of mine sites.
type MineCatalog interface {
	// Get returns the mine with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Mine, error)

	// Search returns mines matching query, in catalog order.
	Search(ctx context.Context, query string) ([]*model.Mine, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// Notifier delivers an alert over its channel. A nil error means the
// alert was accepted for delivery.
type Notifier interface {
	Notify(ctx context.Context, alert *model.Alert) error
}

// ReadingSource produces the current reading for a mine.
type ReadingSource interface {
	Read(ctx context.Context, mine *model.Mine) (valueobject.Reading, error)
}

// RecipientDirectory resolves who receives alerts on each channel.
type RecipientDirectory interface {
	Recipient(channel valueobject.AlertChannel) (string, bool)
}

// SessionStore keeps dashboard state per operator session.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (model.DashboardState, error)
	Store(ctx context.Context, sessionID string, state model.DashboardState) error
}
