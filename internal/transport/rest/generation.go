package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/generation"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// generationService defines the minimal interface needed by GenerationHandler.
type generationService interface {
	Run(ctx context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error)
	History(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error)
}

// GenerationHandler serves generation REST endpoints.
type GenerationHandler struct {
	svc generationService
	log *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(svc generationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{svc: svc, log: logger.With("handler", "generation")}
}

type runRequest struct {
	AsOf *string `json:"as_of,omitempty"` // YYYY-MM-DD, defaults to today
}

// Run handles POST /api/v1/generation/run. The body is optional; an
// as_of date triggers a backfill for that day. Manual runs require an
// authenticated caller.
func (h *GenerationHandler) Run(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
		respondError(w, r, h.log, domain.ErrUnauthorized)
		return
	}

	var req runRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, h.log, err)
			return
		}
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		parsed, err := time.ParseInLocation(dateLayout, *req.AsOf, time.UTC)
		if err != nil {
			respondError(w, r, h.log, domain.NewValidationError("as_of", "must be YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	report, err := h.svc.Run(r.Context(), asOf, domain.TriggerSourceManual)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerationReportJSON(report))
}

// History handles GET /api/v1/templates/{id}/generations.
func (h *GenerationHandler) History(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.svc.History(r.Context(), id, limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]generationRecordJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, toGenerationRecordJSON(rec))
	}
	writeJSON(w, http.StatusOK, out)
}
