// Package checklist implements the checklist repository using PostgreSQL.
// Status changes always go through GetByIDForUpdate inside a transaction
// so that concurrent item completions serialize on the checklist row.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opsrota/opsrota-backend/internal/adapter/postgres"
	"github.com/opsrota/opsrota-backend/internal/domain"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides checklist persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new checklist repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type checklistRow struct {
	ID             uuid.UUID  `db:"id"`
	TemplateID     uuid.UUID  `db:"template_id"`
	PropertyID     uuid.UUID  `db:"property_id"`
	OccurrenceDate time.Time  `db:"occurrence_date"`
	DueAt          time.Time  `db:"due_at"`
	Status         string     `db:"status"`
	AssignedTo     *uuid.UUID `db:"assigned_to"`
	ReviewNotes    *string    `db:"review_notes"`
	CompletedAt    *time.Time `db:"completed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r checklistRow) toDomain() domain.Checklist {
	return domain.Checklist{
		ID:             r.ID,
		TemplateID:     r.TemplateID,
		PropertyID:     r.PropertyID,
		OccurrenceDate: r.OccurrenceDate,
		DueAt:          r.DueAt,
		Status:         domain.ChecklistStatus(r.Status),
		AssignedTo:     r.AssignedTo,
		ReviewNotes:    r.ReviewNotes,
		CompletedAt:    r.CompletedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const checklistColumns = `
id, template_id, property_id, occurrence_date, due_at, status, assigned_to,
review_notes, completed_at, created_at, updated_at`

const createSQL = `
INSERT INTO checklists
  (id, template_id, property_id, occurrence_date, due_at, status, assigned_to, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Create inserts a new checklist.
func (r *Repo) Create(ctx context.Context, cl *domain.Checklist) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createSQL,
		cl.ID, cl.TemplateID, cl.PropertyID, cl.OccurrenceDate, cl.DueAt,
		string(cl.Status), cl.AssignedTo, cl.CreatedAt, cl.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "checklist", cl.ID)
	}
	return nil
}

const getByIDSQL = `
SELECT ` + checklistColumns + `
FROM checklists
WHERE id = $1`

// GetByID returns a checklist by primary key.
// Returns domain.ErrNotFound if the checklist does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Checklist, error) {
	return r.getByID(ctx, id, getByIDSQL)
}

const getByIDForUpdateSQL = getByIDSQL + `
FOR UPDATE`

// GetByIDForUpdate returns a checklist and locks its row until the
// surrounding transaction ends. Use for read-modify-write of status.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Checklist, error) {
	return r.getByID(ctx, id, getByIDForUpdateSQL)
}

func (r *Repo) getByID(ctx context.Context, id uuid.UUID, sql string) (*domain.Checklist, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row checklistRow
	if err := pgxscan.Get(ctx, q, &row, sql, id); err != nil {
		return nil, mapError(err, "checklist", id)
	}

	cl := row.toDomain()
	return &cl, nil
}

const updateStateSQL = `
UPDATE checklists
SET status = $2, completed_at = $3, review_notes = $4, updated_at = $5
WHERE id = $1`

// UpdateState persists a checklist's status together with the fields the
// lifecycle moves with it.
func (r *Repo) UpdateState(ctx context.Context, id uuid.UUID, status domain.ChecklistStatus, completedAt *time.Time, reviewNotes *string, updatedAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateStateSQL, id, string(status), completedAt, reviewNotes, updatedAt)
	if err != nil {
		return mapError(err, "checklist", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checklist %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

const updateAssigneeSQL = `
UPDATE checklists
SET assigned_to = $2, updated_at = $3
WHERE id = $1`

// UpdateAssignee sets or clears the checklist's assignee.
func (r *Repo) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID, updatedAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateAssigneeSQL, id, assignee, updatedAt)
	if err != nil {
		return mapError(err, "checklist", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checklist %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns checklists matching the filter, soonest due first.
// Returns the page, the total count, and error.
func (r *Repo) List(ctx context.Context, filter domain.ChecklistFilter) ([]domain.Checklist, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countQuery := qb.Select("count(*)").From("checklists")
	listQuery := qb.
		Select("id", "template_id", "property_id", "occurrence_date", "due_at", "status",
			"assigned_to", "review_notes", "completed_at", "created_at", "updated_at").
		From("checklists").
		OrderBy("due_at ASC", "id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	where := squirrel.And{}
	if filter.PropertyID != nil {
		where = append(where, squirrel.Eq{"property_id": *filter.PropertyID})
	}
	if filter.TemplateID != nil {
		where = append(where, squirrel.Eq{"template_id": *filter.TemplateID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.AssignedTo != nil {
		where = append(where, squirrel.Eq{"assigned_to": *filter.AssignedTo})
	}
	if filter.DueFrom != nil {
		where = append(where, squirrel.GtOrEq{"due_at": *filter.DueFrom})
	}
	if filter.DueTo != nil {
		where = append(where, squirrel.LtOrEq{"due_at": *filter.DueTo})
	}
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
		listQuery = listQuery.Where(where)
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count checklists: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count checklists: %w", err)
	}

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list checklists: %w", err)
	}
	var rows []checklistRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list checklists: %w", err)
	}

	checklists := make([]domain.Checklist, len(rows))
	for i, row := range rows {
		checklists[i] = row.toDomain()
	}
	return checklists, total, nil
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
