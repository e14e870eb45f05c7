package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
	pgutil "github.com/minesafe/rockfall/pkg/postgres"
)

const assessmentColumns = `
	id, mine_id,
	slope, vibration, rainfall, temperature,
	probability, risk_level,
	slope_instability, vibration_patterns, weather_conditions,
	model, assessed_at, created_at`

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	db pgutil.Querier
}

var _ port.AssessmentRepository = (*AssessmentRepository)(nil)

// NewAssessmentRepository creates a new PostgreSQL-backed assessment
// repository. db is a pool or a transaction.
func NewAssessmentRepository(db pgutil.Querier) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Save persists an assessment. Assessments are immutable, so saving the
// same ID twice is a no-op.
func (r *AssessmentRepository) Save(ctx context.Context, a *model.RiskAssessment) error {
	query := `
		INSERT INTO risk_assessments (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`

	reading := a.Reading()
	factors := a.Factors()
	_, err := r.db.Exec(ctx, query,
		a.ID(),
		a.MineID(),
		decimal.NewFromFloat(reading.Slope()),
		decimal.NewFromFloat(reading.Vibration()),
		decimal.NewFromFloat(reading.Rainfall()),
		decimal.NewFromFloat(reading.Temperature()),
		a.Probability(),
		a.Level().String(),
		factors.SlopeInstability(),
		factors.VibrationPatterns(),
		factors.WeatherConditions(),
		a.Model(),
		a.AssessedAt(),
		a.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// FindByID retrieves an assessment by its unique identifier.
func (r *AssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RiskAssessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM risk_assessments WHERE id = $1`

	a, err := scanAssessment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("assessment %s: %w", id, port.ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

// FindByMineID lists a mine's assessments, newest first.
func (r *AssessmentRepository) FindByMineID(ctx context.Context, mineID string, limit, offset int) ([]*model.RiskAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM risk_assessments
		WHERE mine_id = $1
		ORDER BY assessed_at DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, mineID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*model.RiskAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}

// scanAssessment reads one row. pgx.ErrNoRows is returned unwrapped.
func scanAssessment(row pgx.Row) (*model.RiskAssessment, error) {
	var (
		id                                      uuid.UUID
		mineID                                  string
		slope, vibration, rainfall, temperature decimal.Decimal
		probability                             int
		levelStr                                string
		slopeInstability, vibrationPatterns     int
		weatherConditions                       int
		modelName                               string
		assessedAt, createdAt                   time.Time
	)

	err := row.Scan(
		&id, &mineID,
		&slope, &vibration, &rainfall, &temperature,
		&probability, &levelStr,
		&slopeInstability, &vibrationPatterns, &weatherConditions,
		&modelName, &assessedAt, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	reading, err := valueobject.NewReading(
		slope.InexactFloat64(), vibration.InexactFloat64(),
		rainfall.InexactFloat64(), temperature.InexactFloat64(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reading of assessment %s: %w", id, err)
	}

	level, err := valueobject.RiskLevelFromString(levelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	factors, err := valueobject.NewRiskFactors(slopeInstability, vibrationPatterns, weatherConditions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk factors: %w", err)
	}

	return model.ReconstructRiskAssessment(
		id, mineID, reading, probability, level, factors, modelName, assessedAt, createdAt,
	), nil
}
