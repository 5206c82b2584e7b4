package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/property"
)

// propertyService defines the minimal interface needed by PropertyHandler.
type propertyService interface {
	CreateProperty(ctx context.Context, input property.CreatePropertyInput) (*domain.Property, error)
	UpdateProperty(ctx context.Context, input property.UpdatePropertyInput) (*domain.Property, error)
	DeactivateProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	ListProperties(ctx context.Context, input property.ListPropertiesInput) ([]domain.Property, int, error)
	AssignTemplate(ctx context.Context, input property.AssignTemplateInput) error
	UnassignTemplate(ctx context.Context, input property.AssignTemplateInput) error
}

// PropertyHandler serves property REST endpoints.
type PropertyHandler struct {
	svc propertyService
	log *slog.Logger
}

// NewPropertyHandler creates a PropertyHandler.
func NewPropertyHandler(svc propertyService, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: logger.With("handler", "property")}
}

type createPropertyRequest struct {
	Name      string  `json:"name"`
	Address   *string `json:"address,omitempty"`
	ManagerID *string `json:"manager_id,omitempty"`
}

type updatePropertyRequest struct {
	Name      string  `json:"name"`
	Address   *string `json:"address,omitempty"`
	ManagerID *string `json:"manager_id,omitempty"`
	Active    bool    `json:"active"`
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
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

	input := property.ListPropertiesInput{Limit: limit, Offset: offset}
	if active != nil {
		input.OnlyActive = *active
	}

	properties, total, err := h.svc.ListProperties(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := listJSON[propertyJSON]{Items: make([]propertyJSON, 0, len(properties)), Total: total}
	for i := range properties {
		out.Items = append(out.Items, toPropertyJSON(&properties[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	managerID, err := parseOptionalUUID(req.ManagerID, "manager_id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	prop, err := h.svc.CreateProperty(r.Context(), property.CreatePropertyInput{
		Name:      req.Name,
		Address:   req.Address,
		ManagerID: managerID,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPropertyJSON(prop))
}

// Get handles GET /api/v1/properties/{id}.
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	prop, err := h.svc.GetProperty(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPropertyJSON(prop))
}

// Update handles PATCH /api/v1/properties/{id}.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req updatePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	managerID, err := parseOptionalUUID(req.ManagerID, "manager_id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	prop, err := h.svc.UpdateProperty(r.Context(), property.UpdatePropertyInput{
		ID:        id,
		Name:      req.Name,
		Address:   req.Address,
		ManagerID: managerID,
		Active:    req.Active,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPropertyJSON(prop))
}

// Deactivate handles POST /api/v1/properties/{id}/deactivate.
func (h *PropertyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	prop, err := h.svc.DeactivateProperty(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPropertyJSON(prop))
}

// AssignTemplate handles POST /api/v1/properties/{id}/templates/{templateID}.
func (h *PropertyHandler) AssignTemplate(w http.ResponseWriter, r *http.Request) {
	input, err := templateAssignmentFromPath(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.svc.AssignTemplate(r.Context(), input); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// UnassignTemplate handles DELETE /api/v1/properties/{id}/templates/{templateID}.
func (h *PropertyHandler) UnassignTemplate(w http.ResponseWriter, r *http.Request) {
	input, err := templateAssignmentFromPath(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.svc.UnassignTemplate(r.Context(), input); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unassigned"})
}

func templateAssignmentFromPath(r *http.Request) (property.AssignTemplateInput, error) {
	propertyID, err := pathUUID(r, "id")
	if err != nil {
		return property.AssignTemplateInput{}, err
	}
	templateID, err := pathUUID(r, "templateID")
	if err != nil {
		return property.AssignTemplateInput{}, err
	}
	return property.AssignTemplateInput{TemplateID: templateID, PropertyID: propertyID}, nil
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a valid UUID")
	}
	return &id, nil
}
