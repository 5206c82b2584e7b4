// Package generation turns recurrence schedules into concrete checklist
// instances. It owns the generation run (scheduled and manual), the
// idempotency gate around instance creation, and the generation history.
package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type templateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	ListDue(ctx context.Context, asOf time.Time) ([]domain.ChecklistTemplate, error)
}

type propertyRepo interface {
	ListActiveForTemplate(ctx context.Context, templateID uuid.UUID) ([]domain.Property, error)
}

type recordRepo interface {
	Create(ctx context.Context, rec *domain.GenerationRecord) error
	ListByTemplate(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error)
}

type checklistRepo interface {
	Create(ctx context.Context, cl *domain.Checklist) error
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

// Service implements checklist generation.
type Service struct {
	templates  templateRepo
	properties propertyRepo
	records    recordRepo
	checklists checklistRepo
	audit      auditLogger
	tx         txManager
	log        *slog.Logger
}

// NewService creates a new generation service.
func NewService(
	log *slog.Logger,
	templates templateRepo,
	properties propertyRepo,
	records recordRepo,
	checklists checklistRepo,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		templates:  templates,
		properties: properties,
		records:    records,
		checklists: checklists,
		audit:      audit,
		tx:         tx,
		log:        log.With("service", "generation"),
	}
}
