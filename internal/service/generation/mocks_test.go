package generation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Hand-rolled doubles for the consumer interfaces. Behavior lives in the
// function fields so each test declares exactly what it needs.

type templateRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	ListDueFunc func(ctx context.Context, asOf time.Time) ([]domain.ChecklistTemplate, error)
}

func (m *templateRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *templateRepoMock) ListDue(ctx context.Context, asOf time.Time) ([]domain.ChecklistTemplate, error) {
	return m.ListDueFunc(ctx, asOf)
}

type propertyRepoMock struct {
	ListActiveForTemplateFunc func(ctx context.Context, templateID uuid.UUID) ([]domain.Property, error)
}

func (m *propertyRepoMock) ListActiveForTemplate(ctx context.Context, templateID uuid.UUID) ([]domain.Property, error) {
	return m.ListActiveForTemplateFunc(ctx, templateID)
}

type recordRepoMock struct {
	CreateFunc         func(ctx context.Context, rec *domain.GenerationRecord) error
	ListByTemplateFunc func(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error)
}

func (m *recordRepoMock) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	return m.CreateFunc(ctx, rec)
}

func (m *recordRepoMock) ListByTemplate(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error) {
	return m.ListByTemplateFunc(ctx, templateID, limit)
}

type checklistRepoMock struct {
	CreateFunc func(ctx context.Context, cl *domain.Checklist) error
}

func (m *checklistRepoMock) Create(ctx context.Context, cl *domain.Checklist) error {
	return m.CreateFunc(ctx, cl)
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
