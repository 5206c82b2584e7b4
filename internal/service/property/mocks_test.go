package property

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Hand-rolled doubles for the consumer interfaces. Behavior lives in the
// function fields so each test declares exactly what it needs.

type propertyRepoMock struct {
	CreateFunc           func(ctx context.Context, p *domain.Property) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	UpdateFunc           func(ctx context.Context, p *domain.Property) error
	ListFunc             func(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Property, int, error)
	AssignTemplateFunc   func(ctx context.Context, templateID, propertyID uuid.UUID) error
	UnassignTemplateFunc func(ctx context.Context, templateID, propertyID uuid.UUID) error
}

func (m *propertyRepoMock) Create(ctx context.Context, p *domain.Property) error {
	return m.CreateFunc(ctx, p)
}

func (m *propertyRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *propertyRepoMock) Update(ctx context.Context, p *domain.Property) error {
	return m.UpdateFunc(ctx, p)
}

func (m *propertyRepoMock) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Property, int, error) {
	return m.ListFunc(ctx, onlyActive, limit, offset)
}

func (m *propertyRepoMock) AssignTemplate(ctx context.Context, templateID, propertyID uuid.UUID) error {
	return m.AssignTemplateFunc(ctx, templateID, propertyID)
}

func (m *propertyRepoMock) UnassignTemplate(ctx context.Context, templateID, propertyID uuid.UUID) error {
	return m.UnassignTemplateFunc(ctx, templateID, propertyID)
}

type templateReaderMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
}

func (m *templateReaderMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error) {
	return m.GetByIDFunc(ctx, id)
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
