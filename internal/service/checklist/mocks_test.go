package checklist

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Hand-rolled doubles for the consumer interfaces. Behavior lives in the
// function fields so each test declares exactly what it needs.

type checklistRepoMock struct {
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Checklist, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.Checklist, error)
	UpdateStateFunc      func(ctx context.Context, id uuid.UUID, status domain.ChecklistStatus, completedAt *time.Time, reviewNotes *string, updatedAt time.Time) error
	UpdateAssigneeFunc   func(ctx context.Context, id uuid.UUID, assignee *uuid.UUID, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, filter domain.ChecklistFilter) ([]domain.Checklist, int, error)
}

func (m *checklistRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Checklist, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *checklistRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Checklist, error) {
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *checklistRepoMock) UpdateState(ctx context.Context, id uuid.UUID, status domain.ChecklistStatus, completedAt *time.Time, reviewNotes *string, updatedAt time.Time) error {
	return m.UpdateStateFunc(ctx, id, status, completedAt, reviewNotes, updatedAt)
}

func (m *checklistRepoMock) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID, updatedAt time.Time) error {
	return m.UpdateAssigneeFunc(ctx, id, assignee, updatedAt)
}

func (m *checklistRepoMock) List(ctx context.Context, filter domain.ChecklistFilter) ([]domain.Checklist, int, error) {
	return m.ListFunc(ctx, filter)
}

type templateRepoMock struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	ListItemsFunc func(ctx context.Context, templateID uuid.UUID) ([]domain.TemplateItem, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *templateRepoMock) ListItems(ctx context.Context, templateID uuid.UUID) ([]domain.TemplateItem, error) {
	return m.ListItemsFunc(ctx, templateID)
}

type responseRepoMock struct {
	UpsertFunc              func(ctx context.Context, resp *domain.ItemResponse) (*domain.ItemResponse, error)
	GetFunc                 func(ctx context.Context, checklistID, itemID uuid.UUID) (*domain.ItemResponse, error)
	ListByChecklistFunc     func(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemResponse, error)
	DeleteFunc              func(ctx context.Context, checklistID, itemID uuid.UUID) error
	ListMissingRequiredFunc func(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error)
}

func (m *responseRepoMock) Upsert(ctx context.Context, resp *domain.ItemResponse) (*domain.ItemResponse, error) {
	return m.UpsertFunc(ctx, resp)
}

func (m *responseRepoMock) Get(ctx context.Context, checklistID, itemID uuid.UUID) (*domain.ItemResponse, error) {
	return m.GetFunc(ctx, checklistID, itemID)
}

func (m *responseRepoMock) ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemResponse, error) {
	return m.ListByChecklistFunc(ctx, checklistID)
}

func (m *responseRepoMock) Delete(ctx context.Context, checklistID, itemID uuid.UUID) error {
	return m.DeleteFunc(ctx, checklistID, itemID)
}

func (m *responseRepoMock) ListMissingRequired(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
	return m.ListMissingRequiredFunc(ctx, checklistID)
}

type approvalRepoMock struct {
	UpsertFunc          func(ctx context.Context, appr *domain.ItemApproval) (*domain.ItemApproval, error)
	ListByChecklistFunc func(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemApproval, error)
	ListUnapprovedFunc  func(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error)
}

func (m *approvalRepoMock) Upsert(ctx context.Context, appr *domain.ItemApproval) (*domain.ItemApproval, error) {
	return m.UpsertFunc(ctx, appr)
}

func (m *approvalRepoMock) ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ItemApproval, error) {
	return m.ListByChecklistFunc(ctx, checklistID)
}

func (m *approvalRepoMock) ListUnapproved(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
	return m.ListUnapprovedFunc(ctx, checklistID)
}

type auditLoggerMock struct {
	LogFunc func(ctx context.Context, record domain.AuditRecord) error
}

func (m *auditLoggerMock) Log(ctx context.Context, record domain.AuditRecord) error {
	return m.LogFunc(ctx, record)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTxFunc(ctx, fn)
}

// defaultTxMock runs the callback on the same context, like a committed tx.
func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

// defaultAuditMock accepts every record.
func defaultAuditMock() *auditLoggerMock {
	return &auditLoggerMock{
		LogFunc: func(ctx context.Context, record domain.AuditRecord) error {
			return nil
		},
	}
}
