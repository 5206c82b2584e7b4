// Package genrecord implements the generation record repository using
// PostgreSQL. Records witness every (template, property, occurrence date)
// combination that generation has already handled; the unique index over
// those columns is the only mutual exclusion the generator relies on.
package genrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opsrota/opsrota-backend/internal/adapter/postgres"
	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Repo provides generation record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new generation record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type recordRow struct {
	ID             uuid.UUID `db:"id"`
	TemplateID     uuid.UUID `db:"template_id"`
	PropertyID     uuid.UUID `db:"property_id"`
	OccurrenceDate time.Time `db:"occurrence_date"`
	TriggeredBy    string    `db:"triggered_by"`
	GeneratedAt    time.Time `db:"generated_at"`
}

func (r recordRow) toDomain() domain.GenerationRecord {
	return domain.GenerationRecord{
		ID:             r.ID,
		TemplateID:     r.TemplateID,
		PropertyID:     r.PropertyID,
		OccurrenceDate: r.OccurrenceDate,
		TriggeredBy:    domain.TriggerSource(r.TriggeredBy),
		GeneratedAt:    r.GeneratedAt,
	}
}

const createSQL = `
INSERT INTO generation_records (id, template_id, property_id, occurrence_date, triggered_by, generated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// Create inserts a generation record. It returns domain.ErrAlreadyExists
// when a record for the same (template, property, occurrence date) is
// already present, meaning another run claimed this occurrence first.
func (r *Repo) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createSQL,
		rec.ID, rec.TemplateID, rec.PropertyID, rec.OccurrenceDate,
		string(rec.TriggeredBy), rec.GeneratedAt,
	)
	if err != nil {
		return mapError(err, "generation_record", rec.ID)
	}
	return nil
}

const listByTemplateSQL = `
SELECT id, template_id, property_id, occurrence_date, triggered_by, generated_at
FROM generation_records
WHERE template_id = $1
ORDER BY generated_at DESC, occurrence_date DESC
LIMIT $2`

// ListByTemplate returns the newest generation records for one template.
func (r *Repo) ListByTemplate(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []recordRow
	if err := pgxscan.Select(ctx, q, &rows, listByTemplateSQL, templateID, limit); err != nil {
		return nil, fmt.Errorf("list generation_records: %w", err)
	}

	records := make([]domain.GenerationRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toDomain()
	}
	return records, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
