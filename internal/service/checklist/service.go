// Package checklist drives the lifecycle of generated checklist
// instances: item completion, reviewer decisions, and the status
// transitions between pending and approved.
package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type checklistRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Checklist, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Checklist, error)
	UpdateState(ctx context.Context, id uuid.UUID, status domain.ChecklistStatus, completedAt *time.Time, reviewNotes *string, updatedAt time.Time) error
	UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID, updatedAt time.Time) error
	List(ctx context.Context, filter domain.ChecklistFilter) ([]domain.Checklist, int, error)
}

type templateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.TemplateItem, error)
}

type responseRepo interface {
	Upsert(ctx context.Context, resp *domain.ItemResponse) (*domain.ItemResponse, error)
	Get(ctx context.Context, checklistID, itemID uuid.UUID) (*domain.ItemResponse, error)
	ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemResponse, error)
	Delete(ctx context.Context, checklistID, itemID uuid.UUID) error
	ListMissingRequired(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error)
}

type approvalRepo interface {
	Upsert(ctx context.Context, appr *domain.ItemApproval) (*domain.ItemApproval, error)
	ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemApproval, error)
	ListUnapproved(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error)
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

// Service implements checklist lifecycle operations.
type Service struct {
	checklists checklistRepo
	templates  templateRepo
	responses  responseRepo
	approvals  approvalRepo
	audit      auditLogger
	tx         txManager
	log        *slog.Logger
}

// NewService creates a new checklist lifecycle service.
func NewService(
	log *slog.Logger,
	checklists checklistRepo,
	templates templateRepo,
	responses responseRepo,
	approvals approvalRepo,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		checklists: checklists,
		templates:  templates,
		responses:  responses,
		approvals:  approvals,
		audit:      audit,
		tx:         tx,
		log:        log.With("service", "checklist"),
	}
}

// findItem resolves one of the checklist's template items by ID.
func (s *Service) findItem(ctx context.Context, templateID, itemID uuid.UUID) (*domain.TemplateItem, error) {
	items, err := s.templates.ListItems(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("list template items: %w", err)
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("item %s is not part of this checklist's template: %w", itemID, domain.ErrNotFound)
}
