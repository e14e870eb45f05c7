package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
	pgutil "github.com/minesafe/rockfall/pkg/postgres"
)

// AlertRepository implements port.AlertRepository using PostgreSQL.
type AlertRepository struct {
	db pgutil.Querier
}

var _ port.AlertRepository = (*AlertRepository)(nil)

// NewAlertRepository creates a new PostgreSQL-backed alert repository.
func NewAlertRepository(db pgutil.Querier) *AlertRepository {
	return &AlertRepository{db: db}
}

// Save upserts the alert. Only the delivery outcome changes after insert,
// and a settled alert is never moved back to pending.
func (r *AlertRepository) Save(ctx context.Context, a *model.Alert) error {
	query := `
		INSERT INTO alerts (
			id, mine_id, channel, recipient, risk_level, message,
			status, failure_reason, created_at, settled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			failure_reason = EXCLUDED.failure_reason,
			settled_at = EXCLUDED.settled_at
		WHERE alerts.status = 'pending'
	`

	var settledAt *time.Time
	if t := a.SettledAt(); !t.IsZero() {
		settledAt = &t
	}

	_, err := r.db.Exec(ctx, query,
		a.ID(),
		a.MineID(),
		a.Channel().String(),
		a.Recipient(),
		a.RiskLevel().String(),
		a.Message(),
		a.Status().String(),
		a.FailureReason(),
		a.CreatedAt(),
		settledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// FindRecentByMineID returns up to limit alerts for the mine, newest first.
func (r *AlertRepository) FindRecentByMineID(ctx context.Context, mineID string, limit int) ([]*model.Alert, error) {
	query := `
		SELECT id, mine_id, channel, recipient, risk_level, message,
			status, failure_reason, created_at, settled_at
		FROM alerts
		WHERE mine_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, mineID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}

func scanAlert(row pgx.Row) (*model.Alert, error) {
	var (
		id                                    uuid.UUID
		mineID, channelStr, recipient         string
		levelStr, message, statusStr, failure string
		createdAt                             time.Time
		settledAt                             *time.Time
	)

	if err := row.Scan(
		&id, &mineID, &channelStr, &recipient, &levelStr, &message,
		&statusStr, &failure, &createdAt, &settledAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan alert: %w", err)
	}

	channel, err := valueobject.AlertChannelFromString(channelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert channel: %w", err)
	}
	level, err := valueobject.RiskLevelFromString(levelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert level: %w", err)
	}
	status, err := valueobject.AlertStatusFromString(statusStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert status: %w", err)
	}

	var settled time.Time
	if settledAt != nil {
		settled = *settledAt
	}

	return model.ReconstructAlert(
		id, mineID, channel, recipient, level, message, status, failure, createdAt, settled,
	), nil
}
