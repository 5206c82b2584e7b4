// Package property implements the property repository using PostgreSQL.
// Besides property CRUD it owns the template_assignments junction table
// that decides which properties a template generates checklists for.
package property

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

// Repo provides property persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new property repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type propertyRow struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"name"`
	Address   *string    `db:"address"`
	ManagerID *uuid.UUID `db:"manager_id"`
	Active    bool       `db:"active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (r propertyRow) toDomain() domain.Property {
	return domain.Property{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		ManagerID: r.ManagerID,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const createSQL = `
INSERT INTO properties (id, name, address, manager_id, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create inserts a new property.
func (r *Repo) Create(ctx context.Context, p *domain.Property) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createSQL,
		p.ID, p.Name, p.Address, p.ManagerID, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "property", p.ID)
	}
	return nil
}

const getByIDSQL = `
SELECT id, name, address, manager_id, active, created_at, updated_at
FROM properties
WHERE id = $1`

// GetByID returns a property by primary key.
// Returns domain.ErrNotFound if the property does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row propertyRow
	if err := pgxscan.Get(ctx, q, &row, getByIDSQL, id); err != nil {
		return nil, mapError(err, "property", id)
	}

	p := row.toDomain()
	return &p, nil
}

const updateSQL = `
UPDATE properties
SET name = $2, address = $3, manager_id = $4, active = $5, updated_at = $6
WHERE id = $1`

// Update overwrites the mutable fields of a property.
// Returns domain.ErrNotFound if the property does not exist.
func (r *Repo) Update(ctx context.Context, p *domain.Property) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateSQL,
		p.ID, p.Name, p.Address, p.ManagerID, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "property", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("property %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// List returns properties ordered by name, optionally only active ones.
// Returns the page, the total count, and error.
func (r *Repo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Property, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countQuery := qb.Select("count(*)").From("properties")
	listQuery := qb.
		Select("id", "name", "address", "manager_id", "active", "created_at", "updated_at").
		From("properties").
		OrderBy("name ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if onlyActive {
		countQuery = countQuery.Where(squirrel.Eq{"active": true})
		listQuery = listQuery.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count properties: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list properties: %w", err)
	}
	var rows []propertyRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}

	properties := make([]domain.Property, len(rows))
	for i, row := range rows {
		properties[i] = row.toDomain()
	}
	return properties, total, nil
}

const listActiveForTemplateSQL = `
SELECT p.id, p.name, p.address, p.manager_id, p.active, p.created_at, p.updated_at
FROM properties p
JOIN template_assignments ta ON ta.property_id = p.id
WHERE ta.template_id = $1 AND p.active
ORDER BY p.name ASC`

// ListActiveForTemplate returns the active properties a template is
// assigned to. Inactive properties are excluded so generation skips them.
func (r *Repo) ListActiveForTemplate(ctx context.Context, templateID uuid.UUID) ([]domain.Property, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []propertyRow
	if err := pgxscan.Select(ctx, q, &rows, listActiveForTemplateSQL, templateID); err != nil {
		return nil, fmt.Errorf("list properties for template %s: %w", templateID, err)
	}

	properties := make([]domain.Property, len(rows))
	for i, row := range rows {
		properties[i] = row.toDomain()
	}
	return properties, nil
}

// AssignTemplate links a template to a property. Assigning twice is a
// no-op thanks to ON CONFLICT DO NOTHING.
func (r *Repo) AssignTemplate(ctx context.Context, templateID, propertyID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := qb.
		Insert("template_assignments").
		Columns("template_id", "property_id", "created_at").
		Values(templateID, propertyID, time.Now().UTC()).
		Suffix("ON CONFLICT (template_id, property_id) DO NOTHING")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build assign template: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapError(err, "template_assignment", propertyID)
	}
	return nil
}

const unassignTemplateSQL = `
DELETE FROM template_assignments
WHERE template_id = $1 AND property_id = $2`

// UnassignTemplate removes the link between a template and a property.
// Returns domain.ErrNotFound when no such link exists.
func (r *Repo) UnassignTemplate(ctx context.Context, templateID, propertyID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, unassignTemplateSQL, templateID, propertyID)
	if err != nil {
		return mapError(err, "template_assignment", propertyID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template_assignment %s/%s: %w", templateID, propertyID, domain.ErrNotFound)
	}
	return nil
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
