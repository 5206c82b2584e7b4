package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// CompleteItem records (or overwrites) the response for one checklist
// item and advances the derived status: the first completion moves a
// pending checklist to in_progress, and filling the last required item
// moves it to completed.
func (s *Service) CompleteItem(ctx context.Context, input CompleteItemInput) (*domain.Checklist, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var updated *domain.Checklist

	// Transaction: lock checklist + upsert response + recompute status + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		cl, err := s.checklists.GetByIDForUpdate(txCtx, input.ChecklistID)
		if err != nil {
			return fmt.Errorf("get checklist: %w", err)
		}
		if cl.Status != domain.ChecklistStatusPending && cl.Status != domain.ChecklistStatusInProgress {
			return fmt.Errorf("checklist is %s, items can only be completed while pending or in progress: %w",
				cl.Status, domain.ErrConflict)
		}

		item, err := s.findItem(txCtx, cl.TemplateID, input.ItemID)
		if err != nil {
			return err
		}

		value, err := normalizeItemValue(item.DataType, input.Value)
		if err != nil {
			return err
		}

		if _, err := s.responses.Upsert(txCtx, &domain.ItemResponse{
			ID:          uuid.New(),
			ChecklistID: cl.ID,
			ItemID:      item.ID,
			Value:       value,
			Notes:       input.Notes,
			CompletedBy: userID,
			CompletedAt: now,
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("upsert response: %w", err)
		}

		// Recompute derived status. A completion may carry the checklist
		// through both hops at once: pending → in_progress → completed.
		newStatus := cl.Status
		if newStatus == domain.ChecklistStatusPending {
			newStatus = domain.ChecklistStatusInProgress
		}
		completedAt := cl.CompletedAt
		missing, err := s.responses.ListMissingRequired(txCtx, cl.ID)
		if err != nil {
			return fmt.Errorf("list missing required: %w", err)
		}
		if len(missing) == 0 {
			newStatus = domain.ChecklistStatusCompleted
			completedAt = &now
		}

		if newStatus != cl.Status {
			if err := s.checklists.UpdateState(txCtx, cl.ID, newStatus, completedAt, cl.ReviewNotes, now); err != nil {
				return fmt.Errorf("update checklist state: %w", err)
			}
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeChecklist,
			EntityID:   cl.ID,
			Action:     domain.AuditActionUpdate,
			Changes: map[string]any{
				"item_id": item.ID.String(),
				"status":  map[string]any{"old": cl.Status, "new": newStatus},
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		out := *cl
		out.Status = newStatus
		out.CompletedAt = completedAt
		out.UpdatedAt = now
		updated = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item completed",
		slog.String("checklist_id", updated.ID.String()),
		slog.String("item_id", input.ItemID.String()),
		slog.String("status", updated.Status.String()),
	)

	return updated, nil
}

// normalizeItemValue validates a raw response value against the item's
// data type and returns the trimmed form that gets stored.
func normalizeItemValue(dataType domain.ItemDataType, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", domain.NewValidationError("value", "required")
	}

	switch dataType {
	case domain.ItemDataTypeBoolean:
		if v != "true" && v != "false" {
			return "", domain.NewValidationError("value", "must be true or false")
		}
	case domain.ItemDataTypeNumber:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "", domain.NewValidationError("value", "must be a number")
		}
	case domain.ItemDataTypeText, domain.ItemDataTypePhoto:
		// Any non-empty string; photo values carry a storage reference.
	default:
		return "", domain.NewValidationError("value", "unknown item data type "+dataType.String())
	}

	return v, nil
}
