// Package response implements the item response repository using
// PostgreSQL. Completion is an upsert keyed on (checklist_id, item_id):
// completing the same item twice overwrites the previous answer instead
// of erroring.
package response

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

// Repo provides item response persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new item response repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type responseRow struct {
	ID          uuid.UUID `db:"id"`
	ChecklistID uuid.UUID `db:"checklist_id"`
	ItemID      uuid.UUID `db:"item_id"`
	Value       string    `db:"value"`
	Notes       *string   `db:"notes"`
	CompletedBy uuid.UUID `db:"completed_by"`
	CompletedAt time.Time `db:"completed_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r responseRow) toDomain() domain.ItemResponse {
	return domain.ItemResponse{
		ID:          r.ID,
		ChecklistID: r.ChecklistID,
		ItemID:      r.ItemID,
		Value:       r.Value,
		Notes:       r.Notes,
		CompletedBy: r.CompletedBy,
		CompletedAt: r.CompletedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const responseColumns = `
id, checklist_id, item_id, value, notes, completed_by, completed_at, updated_at`

const upsertSQL = `
INSERT INTO item_responses
  (id, checklist_id, item_id, value, notes, completed_by, completed_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (checklist_id, item_id) DO UPDATE
SET value        = EXCLUDED.value,
    notes        = EXCLUDED.notes,
    completed_by = EXCLUDED.completed_by,
    completed_at = EXCLUDED.completed_at,
    updated_at   = EXCLUDED.updated_at
RETURNING ` + responseColumns

// Upsert records a response for (checklist, item), overwriting any
// previous one. The returned response keeps the original row ID when it
// replaces an earlier answer.
func (r *Repo) Upsert(ctx context.Context, resp *domain.ItemResponse) (*domain.ItemResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row responseRow
	err := pgxscan.Get(ctx, q, &row, upsertSQL,
		resp.ID, resp.ChecklistID, resp.ItemID, resp.Value, resp.Notes,
		resp.CompletedBy, resp.CompletedAt,
	)
	if err != nil {
		return nil, mapError(err, "item_response", resp.ID)
	}

	out := row.toDomain()
	return &out, nil
}

const getSQL = `
SELECT ` + responseColumns + `
FROM item_responses
WHERE checklist_id = $1 AND item_id = $2`

// Get returns the response for (checklist, item).
// Returns domain.ErrNotFound if no response was recorded.
func (r *Repo) Get(ctx context.Context, checklistID, itemID uuid.UUID) (*domain.ItemResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row responseRow
	if err := pgxscan.Get(ctx, q, &row, getSQL, checklistID, itemID); err != nil {
		return nil, mapError(err, "item_response", itemID)
	}

	out := row.toDomain()
	return &out, nil
}

const listByChecklistSQL = `
SELECT ` + responseColumns + `
FROM item_responses
WHERE checklist_id = $1`

// ListByChecklist returns all responses recorded on a checklist.
func (r *Repo) ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []responseRow
	if err := pgxscan.Select(ctx, q, &rows, listByChecklistSQL, checklistID); err != nil {
		return nil, fmt.Errorf("list item_responses: %w", err)
	}

	responses := make([]domain.ItemResponse, len(rows))
	for i, row := range rows {
		responses[i] = row.toDomain()
	}
	return responses, nil
}

const deleteSQL = `
DELETE FROM item_responses
WHERE checklist_id = $1 AND item_id = $2`

// Delete removes the response for (checklist, item); a dependent
// approval goes with it via ON DELETE CASCADE.
// Returns domain.ErrNotFound if no response was recorded.
func (r *Repo) Delete(ctx context.Context, checklistID, itemID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, checklistID, itemID)
	if err != nil {
		return mapError(err, "item_response", itemID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item_response %s/%s: %w", checklistID, itemID, domain.ErrNotFound)
	}
	return nil
}

const listMissingRequiredSQL = `
SELECT ti.id
FROM template_items ti
JOIN checklists c ON c.template_id = ti.template_id
WHERE c.id = $1
  AND ti.required
  AND NOT EXISTS (
    SELECT 1 FROM item_responses ir
    WHERE ir.checklist_id = c.id AND ir.item_id = ti.id
  )
ORDER BY ti.position ASC`

// ListMissingRequired returns the IDs of required template items that
// have no response on the given checklist yet. An empty result means
// the checklist qualifies as fully completed.
func (r *Repo) ListMissingRequired(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, q, &ids, listMissingRequiredSQL, checklistID); err != nil {
		return nil, fmt.Errorf("list missing required items: %w", err)
	}
	return ids, nil
}

const countForTemplateSQL = `
SELECT count(*)
FROM item_responses ir
JOIN template_items ti ON ti.id = ir.item_id
WHERE ti.template_id = $1`

// CountForTemplate returns how many recorded responses reference any of
// the template's items, across all checklists. Used to refuse item
// rewrites that would orphan recorded history.
func (r *Repo) CountForTemplate(ctx context.Context, templateID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countForTemplateSQL, templateID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count responses for template: %w", err)
	}
	return count, nil
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
