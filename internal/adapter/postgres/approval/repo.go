// Package approval implements the item approval repository using
// PostgreSQL. Each response carries at most one approval record; review
// decisions are upserts keyed on response_id, so re-reviewing an item
// replaces the earlier verdict.
package approval

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

// Repo provides item approval persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new item approval repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type approvalRow struct {
	ID         uuid.UUID `db:"id"`
	ResponseID uuid.UUID `db:"response_id"`
	Decision   string    `db:"decision"`
	Notes      *string   `db:"notes"`
	ReviewedBy uuid.UUID `db:"reviewed_by"`
	DecidedAt  time.Time `db:"decided_at"`
}

func (r approvalRow) toDomain() domain.ItemApproval {
	return domain.ItemApproval{
		ID:         r.ID,
		ResponseID: r.ResponseID,
		Decision:   domain.ApprovalDecision(r.Decision),
		Notes:      r.Notes,
		ReviewedBy: r.ReviewedBy,
		DecidedAt:  r.DecidedAt,
	}
}

const approvalColumns = `
id, response_id, decision, notes, reviewed_by, decided_at`

const upsertSQL = `
INSERT INTO item_approvals (id, response_id, decision, notes, reviewed_by, decided_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (response_id) DO UPDATE
SET decision    = EXCLUDED.decision,
    notes       = EXCLUDED.notes,
    reviewed_by = EXCLUDED.reviewed_by,
    decided_at  = EXCLUDED.decided_at
RETURNING ` + approvalColumns

// Upsert records a review decision for a response, replacing any
// earlier decision on the same response.
func (r *Repo) Upsert(ctx context.Context, appr *domain.ItemApproval) (*domain.ItemApproval, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row approvalRow
	err := pgxscan.Get(ctx, q, &row, upsertSQL,
		appr.ID, appr.ResponseID, appr.Decision.String(), appr.Notes,
		appr.ReviewedBy, appr.DecidedAt,
	)
	if err != nil {
		return nil, mapError(err, "item_approval", appr.ID)
	}

	out := row.toDomain()
	return &out, nil
}

const listByChecklistSQL = `
SELECT a.id, a.response_id, a.decision, a.notes, a.reviewed_by, a.decided_at
FROM item_approvals a
JOIN item_responses ir ON ir.id = a.response_id
WHERE ir.checklist_id = $1`

// ListByChecklist returns all review decisions recorded on a
// checklist's responses.
func (r *Repo) ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemApproval, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []approvalRow
	if err := pgxscan.Select(ctx, q, &rows, listByChecklistSQL, checklistID); err != nil {
		return nil, fmt.Errorf("list item_approvals: %w", err)
	}

	approvals := make([]domain.ItemApproval, len(rows))
	for i, row := range rows {
		approvals[i] = row.toDomain()
	}
	return approvals, nil
}

const listUnapprovedSQL = `
SELECT ti.id
FROM template_items ti
JOIN checklists c ON c.template_id = ti.template_id
WHERE c.id = $1
  AND ti.requires_approval
  AND NOT EXISTS (
    SELECT 1
    FROM item_responses ir
    JOIN item_approvals ia ON ia.response_id = ir.id
    WHERE ir.checklist_id = c.id
      AND ir.item_id = ti.id
      AND ia.decision = 'APPROVED'
  )
ORDER BY ti.position ASC`

// ListUnapproved returns the IDs of approval-required template items on
// the checklist that do not carry an APPROVED decision yet. That covers
// items with no response, items awaiting review and items whose last
// decision was a rejection. An empty result clears the checklist for
// final approval.
func (r *Repo) ListUnapproved(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, q, &ids, listUnapprovedSQL, checklistID); err != nil {
		return nil, fmt.Errorf("list unapproved items: %w", err)
	}
	return ids, nil
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
