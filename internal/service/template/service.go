// Package template manages recurring checklist template definitions:
// creation, wholesale updates, retirement, and reads enriched with the
// next occurrence.
package template

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
	Create(ctx context.Context, tpl *domain.ChecklistTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	Update(ctx context.Context, tpl *domain.ChecklistTemplate) error
	ReplaceItems(ctx context.Context, templateID uuid.UUID, items []domain.TemplateItem) error
	Retire(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, filter domain.TemplateFilter) ([]domain.ChecklistTemplate, int, error)
}

type responseRepo interface {
	CountForTemplate(ctx context.Context, templateID uuid.UUID) (int, error)
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

// Service implements template management.
type Service struct {
	templates templateRepo
	responses responseRepo
	audit     auditLogger
	tx        txManager
	log       *slog.Logger
}

// NewService creates a new template service.
func NewService(
	log *slog.Logger,
	templates templateRepo,
	responses responseRepo,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		templates: templates,
		responses: responses,
		audit:     audit,
		tx:        tx,
		log:       log.With("service", "template"),
	}
}
