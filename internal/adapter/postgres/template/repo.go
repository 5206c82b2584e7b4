// Package template implements the checklist template repository using
// PostgreSQL. It owns both checklist_templates and the child
// template_items table, since items have no life of their own outside
// their template.
package template

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

// Repo provides checklist template persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new template repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type templateRow struct {
	ID            uuid.UUID  `db:"id"`
	Name          string     `db:"name"`
	Description   *string    `db:"description"`
	Frequency     string     `db:"frequency"`
	RecurInterval int        `db:"recur_interval"`
	DaysOfWeek    []int32    `db:"days_of_week"`
	DayOfMonth    int        `db:"day_of_month"`
	TimeOfDay     string     `db:"time_of_day"`
	AdvanceDays   int        `db:"advance_days"`
	StartDate     time.Time  `db:"start_date"`
	EndDate       *time.Time `db:"end_date"`
	AutoAssign    bool       `db:"auto_assign"`
	Active        bool       `db:"active"`
	RetiredAt     *time.Time `db:"retired_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r templateRow) toDomain() (domain.ChecklistTemplate, error) {
	tod, err := domain.ParseTimeOfDay(r.TimeOfDay)
	if err != nil {
		return domain.ChecklistTemplate{}, fmt.Errorf("template %s: %w", r.ID, err)
	}

	days := make([]time.Weekday, len(r.DaysOfWeek))
	for i, d := range r.DaysOfWeek {
		days[i] = time.Weekday(d)
	}

	return domain.ChecklistTemplate{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Schedule: domain.Schedule{
			Frequency:   domain.Frequency(r.Frequency),
			Interval:    r.RecurInterval,
			DaysOfWeek:  days,
			DayOfMonth:  r.DayOfMonth,
			TimeOfDay:   tod,
			AdvanceDays: r.AdvanceDays,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			AutoAssign:  r.AutoAssign,
		},
		Active:    r.Active,
		RetiredAt: r.RetiredAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

type itemRow struct {
	ID               uuid.UUID `db:"id"`
	TemplateID       uuid.UUID `db:"template_id"`
	Position         int       `db:"position"`
	Title            string    `db:"title"`
	Description      *string   `db:"description"`
	DataType         string    `db:"data_type"`
	Required         bool      `db:"required"`
	RequiresApproval bool      `db:"requires_approval"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r itemRow) toDomain() domain.TemplateItem {
	return domain.TemplateItem{
		ID:               r.ID,
		TemplateID:       r.TemplateID,
		Position:         r.Position,
		Title:            r.Title,
		Description:      r.Description,
		DataType:         domain.ItemDataType(r.DataType),
		Required:         r.Required,
		RequiresApproval: r.RequiresApproval,
		CreatedAt:        r.CreatedAt,
	}
}

func daysToInt32(days []time.Weekday) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}

const templateColumns = `
id, name, description, frequency, recur_interval, days_of_week, day_of_month,
time_of_day, advance_days, start_date, end_date, auto_assign, active,
retired_at, created_at, updated_at`

const createSQL = `
INSERT INTO checklist_templates
  (id, name, description, frequency, recur_interval, days_of_week, day_of_month,
   time_of_day, advance_days, start_date, end_date, auto_assign, active,
   created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// Create inserts a template together with its items. Run inside a
// transaction so the template never appears without its items.
func (r *Repo) Create(ctx context.Context, tpl *domain.ChecklistTemplate) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	s := tpl.Schedule
	_, err := q.Exec(ctx, createSQL,
		tpl.ID, tpl.Name, tpl.Description, string(s.Frequency), s.Interval,
		daysToInt32(s.DaysOfWeek), s.DayOfMonth, s.TimeOfDay.String(), s.AdvanceDays,
		s.StartDate, s.EndDate, s.AutoAssign, tpl.Active, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "template", tpl.ID)
	}

	return r.insertItems(ctx, tpl.ID, tpl.Items)
}

const getByIDSQL = `
SELECT ` + templateColumns + `
FROM checklist_templates
WHERE id = $1`

// GetByID returns a template with its items, ordered by position.
// Returns domain.ErrNotFound if the template does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row templateRow
	if err := pgxscan.Get(ctx, q, &row, getByIDSQL, id); err != nil {
		return nil, mapError(err, "template", id)
	}

	tpl, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	tpl.Items = items

	return &tpl, nil
}

const listItemsSQL = `
SELECT id, template_id, position, title, description, data_type, required, requires_approval, created_at
FROM template_items
WHERE template_id = $1
ORDER BY position ASC`

// ListItems returns a template's items ordered by position.
func (r *Repo) ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.TemplateItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []itemRow
	if err := pgxscan.Select(ctx, q, &rows, listItemsSQL, templateID); err != nil {
		return nil, fmt.Errorf("list template_items: %w", err)
	}

	items := make([]domain.TemplateItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

const updateSQL = `
UPDATE checklist_templates
SET name = $2, description = $3, frequency = $4, recur_interval = $5,
    days_of_week = $6, day_of_month = $7, time_of_day = $8, advance_days = $9,
    start_date = $10, end_date = $11, auto_assign = $12, active = $13,
    updated_at = $14
WHERE id = $1 AND retired_at IS NULL`

// Update overwrites the mutable fields of a template. Retired templates
// are immutable; updating one returns domain.ErrNotFound.
func (r *Repo) Update(ctx context.Context, tpl *domain.ChecklistTemplate) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	s := tpl.Schedule
	tag, err := q.Exec(ctx, updateSQL,
		tpl.ID, tpl.Name, tpl.Description, string(s.Frequency), s.Interval,
		daysToInt32(s.DaysOfWeek), s.DayOfMonth, s.TimeOfDay.String(), s.AdvanceDays,
		s.StartDate, s.EndDate, s.AutoAssign, tpl.Active, tpl.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "template", tpl.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", tpl.ID, domain.ErrNotFound)
	}
	return nil
}

const deleteItemsSQL = `DELETE FROM template_items WHERE template_id = $1`

// ReplaceItems swaps a template's items wholesale. Run inside a
// transaction together with Update. Returns domain.ErrConflict when
// recorded responses still reference the old items; callers check for
// recorded history first, this is the backstop.
func (r *Repo) ReplaceItems(ctx context.Context, templateID uuid.UUID, items []domain.TemplateItem) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteItemsSQL, templateID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("template %s: items referenced by recorded responses: %w", templateID, domain.ErrConflict)
		}
		return mapError(err, "template_item", templateID)
	}

	return r.insertItems(ctx, templateID, items)
}

const insertItemSQL = `
INSERT INTO template_items
  (id, template_id, position, title, description, data_type, required, requires_approval, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *Repo) insertItems(ctx context.Context, templateID uuid.UUID, items []domain.TemplateItem) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	for _, item := range items {
		_, err := q.Exec(ctx, insertItemSQL,
			item.ID, templateID, item.Position, item.Title, item.Description,
			string(item.DataType), item.Required, item.RequiresApproval, item.CreatedAt,
		)
		if err != nil {
			return mapError(err, "template_item", item.ID)
		}
	}
	return nil
}

const retireSQL = `
UPDATE checklist_templates
SET retired_at = COALESCE(retired_at, $2), active = FALSE, updated_at = $3
WHERE id = $1`

// Retire soft-deactivates a template. Retiring an already retired
// template is a no-op; the original retirement time is kept.
func (r *Repo) Retire(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, retireSQL, id, at, at)
	if err != nil {
		return mapError(err, "template", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns templates without their items, ordered by name.
// Returns the page, the total count, and error.
func (r *Repo) List(ctx context.Context, filter domain.TemplateFilter) ([]domain.ChecklistTemplate, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countQuery := qb.Select("count(*)").From("checklist_templates")
	listQuery := qb.
		Select("id", "name", "description", "frequency", "recur_interval", "days_of_week",
			"day_of_month", "time_of_day", "advance_days", "start_date", "end_date",
			"auto_assign", "active", "retired_at", "created_at", "updated_at").
		From("checklist_templates").
		OrderBy("name ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if !filter.IncludeRetired {
		countQuery = countQuery.Where("retired_at IS NULL")
		listQuery = listQuery.Where("retired_at IS NULL")
	}
	if filter.Active != nil {
		countQuery = countQuery.Where(squirrel.Eq{"active": *filter.Active})
		listQuery = listQuery.Where(squirrel.Eq{"active": *filter.Active})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count templates: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list templates: %w", err)
	}
	var rows []templateRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}

	templates := make([]domain.ChecklistTemplate, len(rows))
	for i, row := range rows {
		tpl, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		templates[i] = tpl
	}
	return templates, total, nil
}

const listDueSQL = `
SELECT ` + templateColumns + `
FROM checklist_templates
WHERE active
  AND retired_at IS NULL
  AND start_date <= ($1::date + advance_days)
  AND (end_date IS NULL OR end_date >= $1::date)
ORDER BY name ASC`

// ListDue returns the active, non-retired templates whose schedule can
// produce occurrences in the generation window anchored at asOf. The
// date filter only pre-narrows; the occurrence resolver makes the
// exact call.
func (r *Repo) ListDue(ctx context.Context, asOf time.Time) ([]domain.ChecklistTemplate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []templateRow
	if err := pgxscan.Select(ctx, q, &rows, listDueSQL, asOf); err != nil {
		return nil, fmt.Errorf("list due templates: %w", err)
	}

	templates := make([]domain.ChecklistTemplate, len(rows))
	for i, row := range rows {
		tpl, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		templates[i] = tpl
	}
	return templates, nil
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
