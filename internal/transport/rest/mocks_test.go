package rest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/checklist"
	"github.com/opsrota/opsrota-backend/internal/service/generation"
	"github.com/opsrota/opsrota-backend/internal/service/property"
	"github.com/opsrota/opsrota-backend/internal/service/template"
)

// Hand-rolled doubles for the handler consumer interfaces. Behavior
// lives in the function fields so each test declares exactly what it
// needs.

type templateServiceMock struct {
	CreateTemplateFunc func(ctx context.Context, input template.CreateTemplateInput) (*domain.ChecklistTemplate, error)
	UpdateTemplateFunc func(ctx context.Context, input template.UpdateTemplateInput) (*domain.ChecklistTemplate, error)
	RetireTemplateFunc func(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	GetTemplateFunc    func(ctx context.Context, id uuid.UUID) (*template.TemplateDetail, error)
	ListTemplatesFunc  func(ctx context.Context, input template.ListTemplatesInput) ([]domain.ChecklistTemplate, int, error)
}

func (m *templateServiceMock) CreateTemplate(ctx context.Context, input template.CreateTemplateInput) (*domain.ChecklistTemplate, error) {
	return m.CreateTemplateFunc(ctx, input)
}

func (m *templateServiceMock) UpdateTemplate(ctx context.Context, input template.UpdateTemplateInput) (*domain.ChecklistTemplate, error) {
	return m.UpdateTemplateFunc(ctx, input)
}

func (m *templateServiceMock) RetireTemplate(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error) {
	return m.RetireTemplateFunc(ctx, id)
}

func (m *templateServiceMock) GetTemplate(ctx context.Context, id uuid.UUID) (*template.TemplateDetail, error) {
	return m.GetTemplateFunc(ctx, id)
}

func (m *templateServiceMock) ListTemplates(ctx context.Context, input template.ListTemplatesInput) ([]domain.ChecklistTemplate, int, error) {
	return m.ListTemplatesFunc(ctx, input)
}

type propertyServiceMock struct {
	CreatePropertyFunc     func(ctx context.Context, input property.CreatePropertyInput) (*domain.Property, error)
	UpdatePropertyFunc     func(ctx context.Context, input property.UpdatePropertyInput) (*domain.Property, error)
	DeactivatePropertyFunc func(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	GetPropertyFunc        func(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	ListPropertiesFunc     func(ctx context.Context, input property.ListPropertiesInput) ([]domain.Property, int, error)
	AssignTemplateFunc     func(ctx context.Context, input property.AssignTemplateInput) error
	UnassignTemplateFunc   func(ctx context.Context, input property.AssignTemplateInput) error
}

func (m *propertyServiceMock) CreateProperty(ctx context.Context, input property.CreatePropertyInput) (*domain.Property, error) {
	return m.CreatePropertyFunc(ctx, input)
}

func (m *propertyServiceMock) UpdateProperty(ctx context.Context, input property.UpdatePropertyInput) (*domain.Property, error) {
	return m.UpdatePropertyFunc(ctx, input)
}

func (m *propertyServiceMock) DeactivateProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	return m.DeactivatePropertyFunc(ctx, id)
}

func (m *propertyServiceMock) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	return m.GetPropertyFunc(ctx, id)
}

func (m *propertyServiceMock) ListProperties(ctx context.Context, input property.ListPropertiesInput) ([]domain.Property, int, error) {
	return m.ListPropertiesFunc(ctx, input)
}

func (m *propertyServiceMock) AssignTemplate(ctx context.Context, input property.AssignTemplateInput) error {
	return m.AssignTemplateFunc(ctx, input)
}

func (m *propertyServiceMock) UnassignTemplate(ctx context.Context, input property.AssignTemplateInput) error {
	return m.UnassignTemplateFunc(ctx, input)
}

type checklistServiceMock struct {
	GetFunc            func(ctx context.Context, id uuid.UUID) (*domain.ChecklistDetail, error)
	ListFunc           func(ctx context.Context, input checklist.ListInput) ([]domain.Checklist, int, error)
	AssignFunc         func(ctx context.Context, input checklist.AssignInput) (*domain.Checklist, error)
	SetStatusFunc      func(ctx context.Context, input checklist.SetStatusInput) (*domain.Checklist, error)
	CompleteItemFunc   func(ctx context.Context, input checklist.CompleteItemInput) (*domain.Checklist, error)
	UncompleteItemFunc func(ctx context.Context, input checklist.UncompleteItemInput) (*domain.Checklist, error)
	ApproveItemFunc    func(ctx context.Context, input checklist.ReviewItemInput) (*domain.Checklist, error)
	RejectItemFunc     func(ctx context.Context, input checklist.ReviewItemInput) (*domain.Checklist, error)
}

func (m *checklistServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.ChecklistDetail, error) {
	return m.GetFunc(ctx, id)
}

func (m *checklistServiceMock) List(ctx context.Context, input checklist.ListInput) ([]domain.Checklist, int, error) {
	return m.ListFunc(ctx, input)
}

func (m *checklistServiceMock) Assign(ctx context.Context, input checklist.AssignInput) (*domain.Checklist, error) {
	return m.AssignFunc(ctx, input)
}

func (m *checklistServiceMock) SetStatus(ctx context.Context, input checklist.SetStatusInput) (*domain.Checklist, error) {
	return m.SetStatusFunc(ctx, input)
}

func (m *checklistServiceMock) CompleteItem(ctx context.Context, input checklist.CompleteItemInput) (*domain.Checklist, error) {
	return m.CompleteItemFunc(ctx, input)
}

func (m *checklistServiceMock) UncompleteItem(ctx context.Context, input checklist.UncompleteItemInput) (*domain.Checklist, error) {
	return m.UncompleteItemFunc(ctx, input)
}

func (m *checklistServiceMock) ApproveItem(ctx context.Context, input checklist.ReviewItemInput) (*domain.Checklist, error) {
	return m.ApproveItemFunc(ctx, input)
}

func (m *checklistServiceMock) RejectItem(ctx context.Context, input checklist.ReviewItemInput) (*domain.Checklist, error) {
	return m.RejectItemFunc(ctx, input)
}

type auditReaderMock struct {
	ListByEntityFunc func(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

func (m *auditReaderMock) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	return m.ListByEntityFunc(ctx, entityType, entityID, limit)
}

type generationServiceMock struct {
	RunFunc     func(ctx context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error)
	HistoryFunc func(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error)
}

func (m *generationServiceMock) Run(ctx context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error) {
	return m.RunFunc(ctx, asOf, source)
}

func (m *generationServiceMock) History(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error) {
	return m.HistoryFunc(ctx, templateID, limit)
}
