package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/checklist"
)

// checklistService defines the minimal interface needed by ChecklistHandler.
type checklistService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.ChecklistDetail, error)
	List(ctx context.Context, input checklist.ListInput) ([]domain.Checklist, int, error)
	Assign(ctx context.Context, input checklist.AssignInput) (*domain.Checklist, error)
	SetStatus(ctx context.Context, input checklist.SetStatusInput) (*domain.Checklist, error)
	CompleteItem(ctx context.Context, input checklist.CompleteItemInput) (*domain.Checklist, error)
	UncompleteItem(ctx context.Context, input checklist.UncompleteItemInput) (*domain.Checklist, error)
	ApproveItem(ctx context.Context, input checklist.ReviewItemInput) (*domain.Checklist, error)
	RejectItem(ctx context.Context, input checklist.ReviewItemInput) (*domain.Checklist, error)
}

// auditReader reads the audit trail for one entity.
type auditReader interface {
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

// ChecklistHandler serves checklist lifecycle REST endpoints.
type ChecklistHandler struct {
	svc   checklistService
	audit auditReader
	log   *slog.Logger
}

// NewChecklistHandler creates a ChecklistHandler.
func NewChecklistHandler(svc checklistService, audit auditReader, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{svc: svc, audit: audit, log: logger.With("handler", "checklist")}
}

type assignRequest struct {
	AssigneeID *string `json:"assignee_id"` // null clears the assignment
}

type setStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type completeItemRequest struct {
	Value string  `json:"value"`
	Notes *string `json:"notes,omitempty"`
}

type reviewItemRequest struct {
	Notes *string `json:"notes,omitempty"`
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// List handles GET /api/v1/checklists. Due-range bounds are civil dates;
// due_to is inclusive through the end of its day.
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	input := checklist.ListInput{}

	var err error
	if input.PropertyID, err = queryUUID(r, "property_id"); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if input.TemplateID, err = queryUUID(r, "template_id"); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if input.AssignedTo, err = queryUUID(r, "assigned_to"); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.ChecklistStatus(raw)
		input.Status = &status
	}
	dueFrom, err := queryDate(r, "due_from")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	input.DueFrom = dueFrom
	dueTo, err := queryDate(r, "due_to")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if dueTo != nil {
		end := dueTo.Add(24*time.Hour - time.Second)
		input.DueTo = &end
	}
	if input.Limit, err = queryInt(r, "limit"); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if input.Offset, err = queryInt(r, "offset"); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	checklists, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := listJSON[checklistJSON]{Items: make([]checklistJSON, 0, len(checklists)), Total: total}
	for i := range checklists {
		out.Items = append(out.Items, toChecklistJSON(&checklists[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/checklists/{id}.
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistDetailJSON(detail))
}

// Assign handles POST /api/v1/checklists/{id}/assign.
func (h *ChecklistHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	assigneeID, err := parseOptionalUUID(req.AssigneeID, "assignee_id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	cl, err := h.svc.Assign(r.Context(), checklist.AssignInput{
		ChecklistID: id,
		AssigneeID:  assigneeID,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistJSON(cl))
}

// SetStatus handles POST /api/v1/checklists/{id}/status.
func (h *ChecklistHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	cl, err := h.svc.SetStatus(r.Context(), checklist.SetStatusInput{
		ChecklistID: id,
		Status:      domain.ChecklistStatus(req.Status),
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistJSON(cl))
}

// CompleteItem handles POST /api/v1/checklists/{id}/items/{itemID}/complete.
func (h *ChecklistHandler) CompleteItem(w http.ResponseWriter, r *http.Request) {
	checklistID, itemID, err := checklistItemFromPath(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req completeItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	cl, err := h.svc.CompleteItem(r.Context(), checklist.CompleteItemInput{
		ChecklistID: checklistID,
		ItemID:      itemID,
		Value:       req.Value,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistJSON(cl))
}

// UncompleteItem handles POST /api/v1/checklists/{id}/items/{itemID}/uncomplete.
func (h *ChecklistHandler) UncompleteItem(w http.ResponseWriter, r *http.Request) {
	checklistID, itemID, err := checklistItemFromPath(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	cl, err := h.svc.UncompleteItem(r.Context(), checklist.UncompleteItemInput{
		ChecklistID: checklistID,
		ItemID:      itemID,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistJSON(cl))
}

// ApproveItem handles POST /api/v1/checklists/{id}/items/{itemID}/approve.
func (h *ChecklistHandler) ApproveItem(w http.ResponseWriter, r *http.Request) {
	h.reviewItem(w, r, h.svc.ApproveItem)
}

// RejectItem handles POST /api/v1/checklists/{id}/items/{itemID}/reject.
func (h *ChecklistHandler) RejectItem(w http.ResponseWriter, r *http.Request) {
	h.reviewItem(w, r, h.svc.RejectItem)
}

func (h *ChecklistHandler) reviewItem(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, checklist.ReviewItemInput) (*domain.Checklist, error),
) {
	checklistID, itemID, err := checklistItemFromPath(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req reviewItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	cl, err := op(r.Context(), checklist.ReviewItemInput{
		ChecklistID: checklistID,
		ItemID:      itemID,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistJSON(cl))
}

// History handles GET /api/v1/checklists/{id}/history.
func (h *ChecklistHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	} else if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	records, err := h.audit.ListByEntity(r.Context(), domain.EntityTypeChecklist, id, limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]auditRecordJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, toAuditRecordJSON(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func checklistItemFromPath(r *http.Request) (checklistID, itemID uuid.UUID, err error) {
	if checklistID, err = pathUUID(r, "id"); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if itemID, err = pathUUID(r, "itemID"); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return checklistID, itemID, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter as UTC midnight.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be YYYY-MM-DD")
	}
	return &d, nil
}
