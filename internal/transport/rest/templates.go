package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/template"
)

// templateService defines the minimal interface needed by TemplateHandler.
type templateService interface {
	CreateTemplate(ctx context.Context, input template.CreateTemplateInput) (*domain.ChecklistTemplate, error)
	UpdateTemplate(ctx context.Context, input template.UpdateTemplateInput) (*domain.ChecklistTemplate, error)
	RetireTemplate(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*template.TemplateDetail, error)
	ListTemplates(ctx context.Context, input template.ListTemplatesInput) ([]domain.ChecklistTemplate, int, error)
}

// TemplateHandler serves template REST endpoints.
type TemplateHandler struct {
	svc templateService
	log *slog.Logger
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(svc templateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{svc: svc, log: logger.With("handler", "template")}
}

type templateItemRequest struct {
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	DataType         string  `json:"data_type"`
	Required         bool    `json:"required"`
	RequiresApproval bool    `json:"requires_approval"`
}

type createTemplateRequest struct {
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Schedule    scheduleJSON          `json:"schedule"`
	Items       []templateItemRequest `json:"items"`
}

type updateTemplateRequest struct {
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Schedule    scheduleJSON          `json:"schedule"`
	Active      bool                  `json:"active"`
	Items       []templateItemRequest `json:"items"`
}

// List handles GET /api/v1/templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	includeRetired, err := queryBool(r, "include_retired")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	input := template.ListTemplatesInput{Active: active, Limit: limit, Offset: offset}
	if includeRetired != nil {
		input.IncludeRetired = *includeRetired
	}

	templates, total, err := h.svc.ListTemplates(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := listJSON[templateJSON]{Items: make([]templateJSON, 0, len(templates)), Total: total}
	for i := range templates {
		out.Items = append(out.Items, toTemplateJSON(&templates[i], nil))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/templates.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	schedule, err := req.Schedule.toDomain()
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	tpl, err := h.svc.CreateTemplate(r.Context(), template.CreateTemplateInput{
		Name:        req.Name,
		Description: req.Description,
		Schedule:    schedule,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTemplateJSON(tpl, nil))
}

// Get handles GET /api/v1/templates/{id}.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	detail, err := h.svc.GetTemplate(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTemplateJSON(&detail.Template, detail.NextOccurrence))
}

// Update handles PATCH /api/v1/templates/{id}.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req updateTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	schedule, err := req.Schedule.toDomain()
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	tpl, err := h.svc.UpdateTemplate(r.Context(), template.UpdateTemplateInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Schedule:    schedule,
		Active:      req.Active,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTemplateJSON(tpl, nil))
}

// Retire handles POST /api/v1/templates/{id}/retire.
func (h *TemplateHandler) Retire(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	tpl, err := h.svc.RetireTemplate(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTemplateJSON(tpl, nil))
}

func toItemInputs(items []templateItemRequest) []template.ItemInput {
	out := make([]template.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, template.ItemInput{
			Title:            item.Title,
			Description:      item.Description,
			DataType:         domain.ItemDataType(item.DataType),
			Required:         item.Required,
			RequiresApproval: item.RequiresApproval,
		})
	}
	return out
}
