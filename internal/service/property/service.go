// Package property manages the sites that receive generated checklists
// and their template assignments.
package property

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type propertyRepo interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Property, int, error)
	AssignTemplate(ctx context.Context, templateID, propertyID uuid.UUID) error
	UnassignTemplate(ctx context.Context, templateID, propertyID uuid.UUID) error
}

type templateReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements property management.
type Service struct {
	properties propertyRepo
	templates  templateReader
	audit      auditLogger
	tx         txManager
	log        *slog.Logger
}

// NewService creates a new property service.
func NewService(
	log *slog.Logger,
	properties propertyRepo,
	templates templateReader,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		properties: properties,
		templates:  templates,
		audit:      audit,
		tx:         tx,
		log:        log.With("service", "property"),
	}
}
