package template

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Hand-rolled doubles for the consumer interfaces. Behavior lives in the
// function fields so each test declares exactly what it needs.

type templateRepoMock struct {
	CreateFunc       func(ctx context.Context, tpl *domain.ChecklistTemplate) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	UpdateFunc       func(ctx context.Context, tpl *domain.ChecklistTemplate) error
	ReplaceItemsFunc func(ctx context.Context, templateID uuid.UUID, items []domain.TemplateItem) error
	RetireFunc       func(ctx context.Context, id uuid.UUID, at time.Time) error
	ListFunc         func(ctx context.Context, filter domain.TemplateFilter) ([]domain.ChecklistTemplate, int, error)
}

func (m *templateRepoMock) Create(ctx context.Context, tpl *domain.ChecklistTemplate) error {
	return m.CreateFunc(ctx, tpl)
}

func (m *templateRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *templateRepoMock) Update(ctx context.Context, tpl *domain.ChecklistTemplate) error {
	return m.UpdateFunc(ctx, tpl)
}

func (m *templateRepoMock) ReplaceItems(ctx context.Context, templateID uuid.UUID, items []domain.TemplateItem) error {
	return m.ReplaceItemsFunc(ctx, templateID, items)
}

func (m *templateRepoMock) Retire(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.RetireFunc(ctx, id, at)
}

func (m *templateRepoMock) List(ctx context.Context, filter domain.TemplateFilter) ([]domain.ChecklistTemplate, int, error) {
	return m.ListFunc(ctx, filter)
}

type responseRepoMock struct {
	CountForTemplateFunc func(ctx context.Context, templateID uuid.UUID) (int, error)
}

func (m *responseRepoMock) CountForTemplate(ctx context.Context, templateID uuid.UUID) (int, error) {
	return m.CountForTemplateFunc(ctx, templateID)
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
